package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder accumulates numbered pgx placeholders ($1, $2…) with their args.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// Add appends a clause; each "?" in the clause is replaced by the next $N placeholder.
func (w *WhereBuilder) Add(clause string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// Next reserves a placeholder for a trailing arg such as LIMIT.
func (w *WhereBuilder) Next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// SQL returns " WHERE a AND b", or "" when empty.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

func (w *WhereBuilder) Args() []interface{} {
	return w.args
}

// EscapeLike escapes % and _ for ILIKE patterns.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
