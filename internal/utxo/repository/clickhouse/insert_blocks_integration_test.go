package clickhouse

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

func (s *RepositorySuite) TestInsertBlockRecords() {
	first := s.buildRecords(chainhash.Hash{}, 1)
	second := s.buildRecords(chainhash.Hash{0x01}, 2)

	s.metrics.EXPECT().Observe(gomock.Any(), model.Mainnet, gomock.Nil(), gomock.Any()).Times(5)

	s.Require().NoError(s.repo.InsertBlockRecords(s.testCtx, []model.InsertBlock{first, second}))

	s.Equal(uint64(2), s.countRows("blk_blocks"))
	s.Equal(uint64(6), s.countRows("blk_transactions"))
	s.Equal(uint64(len(first.Inputs)+len(second.Inputs)), s.countRows("blk_transaction_inputs"))
	s.Equal(uint64(len(first.Outputs)+len(second.Outputs)), s.countRows("blk_transaction_outputs"))
}

func (s *RepositorySuite) TestInsertBlockRecordsTwiceCollapses() {
	records := s.buildRecords(chainhash.Hash{}, 3)

	s.metrics.EXPECT().Observe(gomock.Any(), model.Mainnet, gomock.Nil(), gomock.Any()).Times(10)

	s.Require().NoError(s.repo.InsertBlockRecords(s.testCtx, []model.InsertBlock{records}))
	s.Require().NoError(s.repo.InsertBlockRecords(s.testCtx, []model.InsertBlock{records}))

	s.Equal(uint64(1), s.countRows("blk_blocks"))
	s.Equal(uint64(3), s.countRows("blk_transactions"))
}

func (s *RepositorySuite) TestInsertBlocksKeepsFields() {
	records := s.buildRecords(chainhash.Hash{0x02}, 4)

	s.metrics.EXPECT().Observe("insert_blocks", model.Mainnet, gomock.Nil(), gomock.Any()).Times(1)
	s.Require().NoError(s.repo.InsertBlocks(s.testCtx, []model.BlockRecord{records.Block}))

	rows, err := s.admin.Query(s.testCtx, `
SELECT prev_hash, bits, nonce, file, file_offset
FROM blk_blocks FINAL
WHERE network = ? AND hash = ?`, string(model.Mainnet), records.Block.Hash)
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(rows.Close())
	}()

	var (
		prevHash, bits, file string
		nonce                uint32
		offset               int64
	)
	s.Require().True(rows.Next())
	s.Require().NoError(rows.Scan(&prevHash, &bits, &nonce, &file, &offset))
	s.Equal(records.Block.PrevHash, prevHash)
	s.Equal(records.Block.Bits, bits)
	s.Equal(records.Block.Nonce, nonce)
	s.Equal("blk00000.dat", file)
	s.Equal(int64(4000), offset)
}
