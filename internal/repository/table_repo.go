package repository

import (
	"context"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

// TableWriter persists the result of one run, replacing whatever the previous run wrote.
type TableWriter interface {
	// Write stores the full record table and the no-fee companion table.
	Write(ctx context.Context, records []entity.ProgramRecord, noFee []entity.NoFeeRecord) error
}

// TableReader loads a previously written record table.
type TableReader interface {
	Read(ctx context.Context) ([]entity.ProgramRecord, error)
	// Source names the table for logs and error messages.
	Source() string
}
