package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

const schema = `
	CREATE TABLE IF NOT EXISTS program_records (
		source_url       TEXT PRIMARY KEY,
		position         INTEGER NOT NULL,
		search_keyword   TEXT NOT NULL,
		institution_name TEXT,
		program_name     TEXT,
		campus           TEXT,
		tuition_fee_raw  TEXT,
		written_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

var copyColumns = []string{
	"source_url", "position", "search_keyword",
	"institution_name", "program_name", "campus", "tuition_fee_raw",
}

// ProgramRecordRepoImpl mirrors the record table into PostgreSQL. Absent
// fields are stored as NULL. Every Write replaces the previous run.
type ProgramRecordRepoImpl struct {
	db *pgxpool.Pool
}

var (
	_ repository.TableWriter = (*ProgramRecordRepoImpl)(nil)
	_ repository.TableReader = (*ProgramRecordRepoImpl)(nil)
)

// NewProgramRecordRepo creates a new instance of ProgramRecordRepoImpl.
func NewProgramRecordRepo(db *pgxpool.Pool) *ProgramRecordRepoImpl {
	return &ProgramRecordRepoImpl{db: db}
}

// EnsureSchema creates the table if it does not exist.
func (r *ProgramRecordRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create program_records: %w", err)
	}
	return nil
}

func (r *ProgramRecordRepoImpl) Source() string { return "postgres:program_records" }

// Write truncates and reloads the table in one transaction. The no-fee
// partition is derived from the records on read, so it is not stored.
func (r *ProgramRecordRepoImpl) Write(ctx context.Context, records []entity.ProgramRecord, _ []entity.NoFeeRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE program_records`); err != nil {
		return fmt.Errorf("truncate program_records: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{
			rec.SourceURL,
			i,
			rec.SearchKeyword,
			nullable(rec.InstitutionName),
			nullable(rec.ProgramName),
			nullable(rec.Campus),
			nullable(rec.TuitionFeeRaw),
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"program_records"}, copyColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy program_records: %w", err)
	}

	return tx.Commit(ctx)
}

// Read returns the last run's records in scrape order.
func (r *ProgramRecordRepoImpl) Read(ctx context.Context) ([]entity.ProgramRecord, error) {
	query := `
		SELECT source_url, search_keyword, institution_name, program_name, campus, tuition_fee_raw
		FROM program_records
		ORDER BY position ASC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrInvalidTable, r.Source(), err)
	}
	defer rows.Close()

	var records []entity.ProgramRecord
	for rows.Next() {
		var (
			rec                                  entity.ProgramRecord
			institution, program, campus, feeRaw *string
		)
		if err := rows.Scan(&rec.SourceURL, &rec.SearchKeyword, &institution, &program, &campus, &feeRaw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", repository.ErrInvalidTable, r.Source(), err)
		}
		rec.InstitutionName = text(institution)
		rec.ProgramName = text(program)
		rec.Campus = text(campus)
		rec.TuitionFeeRaw = text(feeRaw)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullable(t entity.Text) any {
	if v, ok := t.Get(); ok {
		return v
	}
	return nil
}

func text(s *string) entity.Text {
	if s == nil {
		return entity.None()
	}
	return entity.Some(*s)
}
