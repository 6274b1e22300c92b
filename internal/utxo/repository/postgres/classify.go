package postgres

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/storage"
	"github.com/jackc/pgx/v5/pgconn"
)

// transientStates lists SQLSTATE codes and classes that may succeed on retry.
var transientStates = []string{
	"08",    // connection exception
	"40001", // serialization_failure
	"40P01", // deadlock_detected
	"53",    // insufficient resources
	"57P01", // admin_shutdown
	"57P02", // crash_shutdown
	"57P03", // cannot_connect_now
}

// classify wraps err as storage.ErrTransient or storage.ErrFatal.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return storage.Transient(err)
	}
	return storage.Fatal(err)
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, state := range transientStates {
			if strings.HasPrefix(pgErr.Code, state) {
				return true
			}
		}
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
