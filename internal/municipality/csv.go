package municipality

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/pkg/platform/sentinel"
)

// Delimiter separates name and code in registry files.
const Delimiter = ';'

// ParseCSV reads "name;code" rows. Blank lines are skipped. A row with the
// wrong number of fields, an empty name, a malformed code, or a name seen
// before fails the whole parse.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var entries []Entry
	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sentinel.ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, fmt.Errorf("%w: registry line %d: expected 2 fields, got %d", sentinel.ErrMalformed, line, len(record))
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("%w: registry line %d: empty municipality name", sentinel.ErrMalformed, line)
		}
		code, err := fiscalcode.ParseCadastralCode(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: registry line %d: %v", sentinel.ErrMalformed, line, err)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: registry line %d: duplicate municipality %q", sentinel.ErrMalformed, line, name)
		}
		seen[name] = struct{}{}
		entries = append(entries, Entry{Name: name, Code: code})
	}
	return entries, nil
}
