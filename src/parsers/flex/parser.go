// backend/src/parsers/flex/parser.go
package flex

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// FlexParser reads broker flex-style CSV exports into generic rows keyed by
// header name, so the import layer can apply its header-candidate lookups.
type FlexParser struct{}

// NewParser creates a new instance of the FlexParser.
func NewParser() *FlexParser {
	return &FlexParser{}
}

// Parse reads a CSV export and returns one map per non-blank data row.
// Column counts may vary between rows; extra cells are dropped and missing
// cells are left unset.
func (p *FlexParser) Parse(file io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("flex parser: failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("flex parser: failed to read all CSV records: %w", err)
	}

	var rows []map[string]any
	for _, record := range records {
		blank := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
