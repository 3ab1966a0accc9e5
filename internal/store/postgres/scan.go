package postgres

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanLeadWithTotal scans a row with a leading total_count column followed
// by leadColumns.
func scanLeadWithTotal(row scannable) (model.Lead, int, error) {
	var (
		total   int
		id      string
		name    sql.NullString
		email   sql.NullString
		company sql.NullString
		attrs   []byte
	)
	if err := row.Scan(&total, &id, &name, &email, &company, &attrs); err != nil {
		return nil, 0, err
	}
	l, err := flattenLead(id, name, email, company, attrs)
	if err != nil {
		return nil, 0, err
	}
	return l, total, nil
}

// flattenLead merges the attrs document with the column values. Columns
// take precedence; NULL columns leave the field absent.
func flattenLead(id string, name, email, company sql.NullString, attrs []byte) (model.Lead, error) {
	l := model.Lead{}
	if len(attrs) > 0 {
		dec := json.NewDecoder(bytes.NewReader(attrs))
		dec.UseNumber()
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("lead %s: decoding attrs: %w", id, err)
		}
		if l == nil { // attrs held JSON null
			l = model.Lead{}
		}
	}
	l[model.FieldID] = id
	setNullString(l, model.FieldName, name)
	setNullString(l, model.FieldEmail, email)
	setNullString(l, model.FieldCompany, company)
	return l, nil
}

func setNullString(l model.Lead, field string, v sql.NullString) {
	if v.Valid {
		l[field] = v.String
	}
}
