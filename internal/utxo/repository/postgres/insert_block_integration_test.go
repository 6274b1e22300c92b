package postgres

import (
	"errors"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/blkfiletest"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/storage"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *RepositorySuite) TestInsertBlock() {
	block := s.buildRecords(chainhash.Hash{}, 1)

	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Nil(), gomock.Any()).Times(1)

	inserted, err := s.repo.InsertBlock(s.testCtx, block)
	s.Require().NoError(err)
	s.True(inserted)

	s.Equal(int64(1), s.countRows("blocks"))
	s.Equal(int64(len(block.Txs)), s.countRows("transactions"))
	s.Equal(int64(len(block.Inputs)), s.countRows("transaction_inputs"))
	s.Equal(int64(len(block.Outputs)), s.countRows("transaction_outputs"))

	var (
		file   string
		offset int64
		bits   string
	)
	err = s.admin.QueryRow(s.testCtx,
		`SELECT file, file_offset, bits FROM blocks WHERE block_hash = $1`, block.Block.Hash).
		Scan(&file, &offset, &bits)
	s.Require().NoError(err)
	s.Equal(block.Block.File, file)
	s.Equal(block.Block.FileOffset, offset)
	s.Equal(block.Block.Bits, bits)
}

func (s *RepositorySuite) TestInsertBlockTwiceIsIdempotent() {
	block := s.buildRecords(chainhash.Hash{}, 2)

	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Nil(), gomock.Any()).Times(2)

	inserted, err := s.repo.InsertBlock(s.testCtx, block)
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.repo.InsertBlock(s.testCtx, block)
	s.Require().NoError(err)
	s.False(inserted)

	s.Equal(int64(1), s.countRows("blocks"))
	s.Equal(int64(len(block.Txs)), s.countRows("transactions"))
	s.Equal(int64(len(block.Inputs)), s.countRows("transaction_inputs"))
	s.Equal(int64(len(block.Outputs)), s.countRows("transaction_outputs"))
}

func (s *RepositorySuite) TestInsertBlockConcurrentDuplicates() {
	block := s.buildRecords(chainhash.Hash{}, 3)

	const writers = 4
	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Nil(), gomock.Any()).Times(writers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
		errs     []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.repo.InsertBlock(s.testCtx, block)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if ok {
				inserted++
			}
		}()
	}
	wg.Wait()

	s.Empty(errs)
	s.Equal(1, inserted)
	s.Equal(int64(1), s.countRows("blocks"))
	s.Equal(int64(len(block.Txs)), s.countRows("transactions"))
}

func (s *RepositorySuite) TestInsertBlockFailedChildLeavesNoRows() {
	block := s.buildRecords(chainhash.Hash{}, 6)
	orphan := block.Inputs[0]
	orphan.TxID = strings.Repeat("ab", 32)
	block.Inputs = append(block.Inputs, orphan)

	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Not(gomock.Nil()), gomock.Any()).Times(1)

	inserted, err := s.repo.InsertBlock(s.testCtx, block)
	s.Require().Error(err)
	s.False(inserted)
	s.True(errors.Is(err, storage.ErrFatal), "error %v is not fatal", err)

	var pgErr *pgconn.PgError
	s.Require().True(errors.As(err, &pgErr))
	s.Equal("23503", pgErr.Code)

	s.Equal(int64(0), s.countRows("blocks"))
	s.Equal(int64(0), s.countRows("transactions"))
	s.Equal(int64(0), s.countRows("transaction_inputs"))
	s.Equal(int64(0), s.countRows("transaction_outputs"))
}

func (s *RepositorySuite) TestInsertBlocksSharingCoinbaseTxID() {
	coinbase := blkfiletest.CoinbaseTx(50_0000_0000, 0x30)
	first := s.recordsOf(blkfiletest.NewBlock(chainhash.Hash{}, 7, coinbase))
	firstHash, err := chainhash.NewHashFromStr(first.Block.Hash)
	s.Require().NoError(err)
	second := s.recordsOf(blkfiletest.NewBlock(*firstHash, 8, coinbase))
	s.Require().Equal(first.Txs[0].TxID, second.Txs[0].TxID)
	s.Require().NotEqual(first.Block.Hash, second.Block.Hash)

	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Nil(), gomock.Any()).Times(2)

	for _, block := range []model.InsertBlock{first, second} {
		inserted, err := s.repo.InsertBlock(s.testCtx, block)
		s.Require().NoError(err)
		s.True(inserted)
	}

	s.Equal(int64(2), s.countRows("blocks"))
	s.Equal(int64(1), s.countRows("transactions"))
	s.Equal(int64(len(first.Inputs)), s.countRows("transaction_inputs"))
	s.Equal(int64(len(first.Outputs)), s.countRows("transaction_outputs"))

	var owner string
	err = s.admin.QueryRow(s.testCtx,
		`SELECT block_hash FROM transactions WHERE txid = $1`, first.Txs[0].TxID).Scan(&owner)
	s.Require().NoError(err)
	s.Equal(first.Block.Hash, owner)
}

func (s *RepositorySuite) TestInsertChainKeepsParentLinks() {
	first := s.buildRecords(chainhash.Hash{}, 4)
	firstHash, err := chainhash.NewHashFromStr(first.Block.Hash)
	s.Require().NoError(err)
	second := s.buildRecords(*firstHash, 5)

	s.metrics.EXPECT().Observe("insert_block", model.Mainnet, gomock.Nil(), gomock.Any()).Times(2)

	for _, block := range []model.InsertBlock{first, second} {
		inserted, err := s.repo.InsertBlock(s.testCtx, block)
		s.Require().NoError(err)
		s.True(inserted)
	}

	var parent string
	err = s.admin.QueryRow(s.testCtx,
		`SELECT prev_hash FROM blocks WHERE block_hash = $1`, second.Block.Hash).Scan(&parent)
	s.Require().NoError(err)
	s.Equal(first.Block.Hash, parent)
}
