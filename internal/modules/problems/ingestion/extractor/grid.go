package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
)

// CSV reads a comma-separated file as a single sheet named "csv".
type CSV struct{}

func (CSV) ReadSheets(ctx context.Context, data []byte) ([]Sheet, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %v: %w", err, importerr.ErrParse)
		}
		rows = append(rows, rec)
	}
	return []Sheet{{Name: "csv", Rows: rows}}, nil
}

// XLSX reads every worksheet of an Office Open XML workbook.
type XLSX struct{}

func (XLSX) ReadSheets(ctx context.Context, data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %v: %w", err, importerr.ErrParse)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("xlsx: sheet %q: %v: %w", name, err, importerr.ErrParse)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// XLS reads every worksheet of a legacy BIFF workbook.
type XLS struct{}

func (XLS) ReadSheets(ctx context.Context, data []byte) (sheets []Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("xls: malformed workbook: %v: %w", r, importerr.ErrParse)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls: open: %v: %w", err, importerr.ErrParse)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: rows})
	}
	return sheets, nil
}
