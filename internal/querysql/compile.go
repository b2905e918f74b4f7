// Package querysql compiles queryir queries to parameterized SQLite.
package querysql

import (
	"fmt"
	"strings"

	"github.com/richarc/qx-sub001/internal/queryir"
)

// Sources lists the tables and columns a query may reference. Anything
// else is rejected before SQL is produced.
var Sources = map[string]map[string]bool{
	"runs": {
		"id":             true,
		"seq":            true,
		"circuit_hash":   true,
		"circuit_name":   true,
		"qubits":         true,
		"clbits":         true,
		"shots":          true,
		"path":           true,
		"seed":           true,
		"engine_version": true,
	},
}

// SQLCompiler compiles QueryIR to parameterized SQL for SQLite.
//
// CRITICAL: ALL queries include ORDER BY seq, id for deterministic results.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	// Columns is the SELECT list. Empty means "*".
	Columns []string
}

// NewSQLCompiler creates a new SQLCompiler selecting columns.
func NewSQLCompiler(columns ...string) *SQLCompiler {
	return &SQLCompiler{Columns: columns}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if problems := queryir.Validate(q); len(problems) > 0 {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(problems, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect compiles a queryir.Select to SQL.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	columns, ok := Sources[q.From]
	if !ok {
		return "", nil, fmt.Errorf("unknown source %q", q.From)
	}

	selectClause := "*"
	if len(c.Columns) > 0 {
		for _, col := range c.Columns {
			if !columns[col] {
				return "", nil, fmt.Errorf("unknown column %q in %s", col, q.From)
			}
		}
		selectClause = strings.Join(c.Columns, ", ")
	}

	var whereClause string
	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter, columns)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	// MANDATORY: logical clock order with id tiebreaker
	orderByClause := " ORDER BY seq ASC, id COLLATE BINARY ASC"

	var limitClause string
	if q.Limit > 0 {
		limitClause = " LIMIT ?"
		params = append(params, q.Limit)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s%s",
		selectClause,
		q.From,
		whereClause,
		orderByClause,
		limitClause)

	return sql, params, nil
}

// compilePredicate compiles a predicate to a WHERE fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate, columns map[string]bool) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		if !columns[pred.Field] {
			return "", nil, fmt.Errorf("unknown field %q", pred.Field)
		}
		return fmt.Sprintf("%s = ?", pred.Field), []any{pred.Value}, nil
	case *queryir.Equals:
		return c.compilePredicate(*pred, columns)
	case queryir.AtLeast:
		if !columns[pred.Field] {
			return "", nil, fmt.Errorf("unknown field %q", pred.Field)
		}
		return fmt.Sprintf("%s >= ?", pred.Field), []any{pred.Value}, nil
	case *queryir.AtLeast:
		return c.compilePredicate(*pred, columns)
	case queryir.And:
		return c.compileAnd(pred, columns)
	case *queryir.And:
		return c.compileAnd(*pred, columns)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd compiles an And predicate to conjunction with AND.
func (c *SQLCompiler) compileAnd(and queryir.And, columns map[string]bool) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // vacuous truth
	}

	var sqlParts []string
	var allParams []any
	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred, columns)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return "(" + strings.Join(sqlParts, " AND ") + ")", allParams, nil
}
