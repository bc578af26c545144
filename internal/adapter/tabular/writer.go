package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

// FileWriter writes the record table and the no-fee companion as .xlsx or
// .csv, chosen by file extension. Both tables are encoded to temp files
// before either is renamed into place, so a failed encode leaves the
// previous pair untouched.
type FileWriter struct {
	mainPath  string
	noFeePath string
	logger    *zap.Logger
}

var _ repository.TableWriter = (*FileWriter)(nil)

// NewFileWriter returns a writer. An empty noFeePath skips the companion table.
func NewFileWriter(mainPath, noFeePath string, logger *zap.Logger) *FileWriter {
	return &FileWriter{mainPath: mainPath, noFeePath: noFeePath, logger: logger}
}

// staged is a fully encoded table waiting to be renamed over path.
type staged struct {
	tmp  string
	path string
	rows int
}

func (w *FileWriter) Write(ctx context.Context, records []entity.ProgramRecord, noFee []entity.NoFeeRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = mainRow(r)
	}
	primary, err := stageTable(w.mainPath, mainSheet, header(MainColumns), rows)
	if err != nil {
		return err
	}
	tables := []staged{primary}

	if w.noFeePath != "" {
		rows = make([][]string, len(noFee))
		for i, r := range noFee {
			rows[i] = noFeeRow(r)
		}
		companion, err := stageTable(w.noFeePath, noFeeSheet, header(NoFeeColumns), rows)
		if err != nil {
			discard(tables)
			return err
		}
		tables = append(tables, companion)
	}
	if err := ctx.Err(); err != nil {
		discard(tables)
		return err
	}

	for i, t := range tables {
		if err := os.Rename(t.tmp, t.path); err != nil {
			discard(tables[i:])
			return fmt.Errorf("replace %s: %w", t.path, err)
		}
		w.logger.Info("table written", zap.String("path", t.path), zap.Int("rows", t.rows))
	}
	return nil
}

func discard(tables []staged) {
	for _, t := range tables {
		_ = os.Remove(t.tmp)
	}
}

// stageTable encodes a table into a temp file next to path.
func stageTable(path, sheet string, head []string, rows [][]string) (_ staged, err error) {
	var encode func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		encode = func(out io.Writer) error { return encodeXLSX(out, sheet, head, rows) }
	case ".csv":
		encode = func(out io.Writer) error { return encodeCSV(out, head, rows) }
	default:
		return staged{}, fmt.Errorf("unsupported table format %q for %s", ext, path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return staged{}, fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = encode(tmp); err != nil {
		_ = tmp.Close()
		return staged{}, fmt.Errorf("encode %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return staged{}, fmt.Errorf("close temp file for %s: %w", path, err)
	}
	return staged{tmp: tmp.Name(), path: path, rows: len(rows)}, nil
}

func encodeXLSX(out io.Writer, sheet string, head []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(head)); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(out)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// encodeCSV prefixes a UTF-8 BOM so spreadsheet programs detect Thai text.
func encodeCSV(out io.Writer, head []string, rows [][]string) error {
	if _, err := io.WriteString(out, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.Write(head); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}
