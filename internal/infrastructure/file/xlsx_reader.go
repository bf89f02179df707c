package file

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var ErrNoWorksheet = errors.New("workbook has no worksheet")

type opener interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

// XLSXReader returns every row of a workbook's first sheet, header included.
type XLSXReader struct {
	source opener
}

func NewXLSXReader(source opener) *XLSXReader {
	return &XLSXReader{source: source}
}

func (r *XLSXReader) ReadRows(ctx context.Context, sourcePath string) ([][]string, error) {
	rc, err := r.source.Open(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadFirstSheet(rc)
}

// ReadFirstSheet parses an xlsx stream and returns the rows of its first sheet.
// Trailing empty cells are dropped by excelize, so rows may be ragged.
func ReadFirstSheet(rd io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
