package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

// FileReader loads a record table written by FileWriter.
type FileReader struct {
	path string
}

var _ repository.TableReader = (*FileReader)(nil)

func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

func (r *FileReader) Source() string { return r.path }

// Read returns the records in file order. Any schema problem is reported as
// repository.ErrInvalidTable; nothing is returned for a partially valid file.
func (r *FileReader) Read(ctx context.Context) ([]entity.ProgramRecord, error) {
	rows, err := readRows(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrInvalidTable, r.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeRecords(r.path, rows)
}

func readRows(path string) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return f.GetRows(sheets[0])
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cr := csv.NewReader(f)
		cr.FieldsPerRecord = -1
		return cr.ReadAll()
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}
}

func decodeRecords(path string, rows [][]string) ([]entity.ProgramRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", repository.ErrInvalidTable, path)
	}
	if err := checkHeader(rows[0], MainColumns); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrInvalidTable, path, err)
	}

	records := make([]entity.ProgramRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) > len(MainColumns) {
			return nil, fmt.Errorf("%w: %s: row %d has %d cells, want %d", repository.ErrInvalidTable, path, i+2, len(row), len(MainColumns))
		}
		cells := make([]string, len(MainColumns))
		copy(cells, row)

		rec := entity.ProgramRecord{
			SearchKeyword:   strings.TrimSpace(cells[0]),
			InstitutionName: entity.ParseCell(entity.FieldInstitution, cells[1]),
			ProgramName:     entity.ParseCell(entity.FieldProgram, cells[2]),
			Campus:          entity.ParseCell(entity.FieldCampus, cells[3]),
			TuitionFeeRaw:   entity.ParseCell(entity.FieldTuitionFee, cells[4]),
			SourceURL:       strings.TrimSpace(cells[5]),
		}
		if rec.SourceURL == "" {
			return nil, fmt.Errorf("%w: %s: row %d has no %s", repository.ErrInvalidTable, path, i+2, entity.FieldSourceURL)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(got []string, want []entity.Field) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, want %v", len(got), want)
	}
	for i, c := range want {
		cell := strings.TrimSpace(strings.TrimPrefix(got[i], "\uFEFF"))
		if cell != string(c) {
			return fmt.Errorf("column %d is %q, want %q", i+1, cell, c)
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
