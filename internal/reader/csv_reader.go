package reader

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// CSVReader reads header-less CSV rows with a variable number of fields.
type CSVReader struct {
	reader io.Reader
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// Each calls fn for every non-empty row and stops at the first error.
func (cr *CSVReader) Each(fn func(Record) error) error {
	csvReader := csv.NewReader(cr.reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.ReuseRecord = false

	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if blank(row) {
			continue
		}

		line, _ := csvReader.FieldPos(0)
		if err := fn(Record{Line: line, Fields: row}); err != nil {
			return err
		}
	}
}

func (cr *CSVReader) Read() ([]Record, error) {
	var records []Record
	err := cr.Each(func(r Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
