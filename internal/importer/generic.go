package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
)

// GenericParser parses the simple date,description,amount[,reference]
// layout most Indian bank portals can export. Amounts are signed: negative
// means money out.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericMinFields  = 3
	genericColDate    = 0
	genericColDesc    = 1
	genericColAmount  = 2
	genericColRef     = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic statement CSV and returns statement rows.
func (p *GenericParser) Parse(r io.Reader) ([]model.StatementRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // the reference column is optional

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []model.StatementRow
	for i, rec := range records[1:] {
		row, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseGenericRow(rec []string) (model.StatementRow, error) {
	if len(rec) < genericMinFields {
		return model.StatementRow{}, fmt.Errorf("expected at least %d fields, got %d", genericMinFields, len(rec))
	}

	date, err := time.Parse(genericDateFormat, rec[genericColDate])
	if err != nil {
		return model.StatementRow{}, fmt.Errorf("parsing date %q: %w", rec[genericColDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[genericColAmount]))
	if err != nil {
		return model.StatementRow{}, fmt.Errorf("parsing amount %q: %w", rec[genericColAmount], err)
	}

	desc := rec[genericColDesc]
	ref := ""
	if len(rec) > genericColRef {
		ref = rec[genericColRef]
	}
	if ref == "" {
		ref = makeRef(date, desc)
	}

	return model.StatementRow{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   ref,
	}, nil
}

// makeRef creates a reference like stmt_20250103_RENTJAN.
func makeRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("stmt_%s_%s", date.Format("20060102"), prefix)
}
