package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

// leadColumns is the column list used for SELECT statements on the leads table.
const leadColumns = `id, name, email, company, attrs`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryListLeads(ctx context.Context, db executor, q store.Query) ([]model.Lead, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if q.Company != "" {
		whereClauses = append(whereClauses, "company = "+nextArg())
		args = append(args, q.Company)
	}

	if q.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(name ILIKE '%%' || %s || '%%' OR company ILIKE '%%' || %s || '%%' OR email ILIKE '%%' || %s || '%%')", p, p, p))
		args = append(args, q.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// COUNT(*) OVER() yields the unpaged total alongside the rows.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + leadColumns + " FROM leads" + whereSQL + " ORDER BY " + parseSortClause(q.Sort)

	if q.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, q.Limit)
	}
	if q.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, q.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []model.Lead{}
	var total int
	for rows.Next() {
		l, t, err := scanLeadWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan leads: %w", err)
		}
		total = t
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan leads: %w", err)
	}

	return leads, total, nil
}

// parseSortClause maps a user sort key to an ORDER BY clause. Unknown
// columns fall back to insertion order.
func parseSortClause(sort string) string {
	const fallback = "created_at ASC, id ASC"
	if sort == "" {
		return fallback
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"id": true, "name": true, "company": true, "email": true,
		"created_at": true, "updated_at": true,
	}
	if !allowed[col] {
		return fallback
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
