package importer

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadGrid reads the first worksheet of an .xlsx file into a raw string grid.
// Empty cells come back as empty strings; only column A is semantically parsed
// downstream, but the full grid is returned as read.
func ReadGrid(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("planilha sem abas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return rows, nil
}
