package vcached

import (
	"errors"
	"fmt"

	"github.com/vcached-io/vcached/recordstore"
	"github.com/vcached-io/vcached/table"
)

var (
	// ErrNotFound is returned when a requested external record does not exist.
	ErrNotFound = errors.New("vcached: not found")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch at
// the database boundary. The underlying engine error is reachable via
// errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vcached: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidMode indicates an unrecognized similarity mode at Open.
type ErrInvalidMode struct {
	Mode  string
	cause error
}

func (e *ErrInvalidMode) Error() string {
	return fmt.Sprintf("vcached: invalid mode: %q", e.Mode)
}

func (e *ErrInvalidMode) Unwrap() error { return e.cause }

// ErrCapacity indicates the table has exhausted every bucket.
type ErrCapacity struct {
	cause error
}

func (e *ErrCapacity) Error() string { return "vcached: capacity exceeded" }
func (e *ErrCapacity) Unwrap() error { return e.cause }

// translateError maps internal engine/recordstore errors onto the stable,
// typed errors the database façade exposes to its own callers (HTTP, CLI),
// so nothing above this boundary needs to import table or recordstore to
// handle errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, recordstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var dimErr *table.DimensionError
	if errors.As(err, &dimErr) {
		return &ErrDimensionMismatch{Expected: dimErr.Expected, Actual: dimErr.Actual, cause: err}
	}

	if errors.Is(err, table.ErrInvalidMode) {
		return &ErrInvalidMode{cause: err}
	}

	if errors.Is(err, table.ErrCapacity) {
		return &ErrCapacity{cause: err}
	}

	return err
}
