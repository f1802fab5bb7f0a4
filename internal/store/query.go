// FilePath: internal/store/query.go
package store

import (
	"fmt"
	"strings"
)

// Statement construction. Identifiers are interpolated only after
// passing validIdent; every value travels as a bind parameter.

func buildWhere(sb *strings.Builder, args *[]any, where Filters) {
	if len(where) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	for i, col := range sortedKeys(where) {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		*args = append(*args, where[col])
		fmt.Fprintf(sb, "%s = $%d", col, len(*args))
	}
}

func buildSelect(collection string, filters Filters, terms []orderTerm, opts *SelectOptions) (string, []any) {
	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "SELECT * FROM %s", collection)
	buildWhere(&sb, &args, filters)

	if len(terms) == 0 {
		// serial primary keys make id order the insertion order
		sb.WriteString(" ORDER BY id ASC")
	} else {
		sb.WriteString(" ORDER BY ")
		for i, t := range terms {
			if i > 0 {
				sb.WriteString(", ")
			}
			dir := "ASC"
			if t.descending {
				dir = "DESC"
			}
			fmt.Fprintf(&sb, "%s %s", t.column, dir)
		}
	}

	if opts != nil && opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		if opts.Offset > 0 {
			args = append(args, opts.Offset)
			fmt.Fprintf(&sb, " OFFSET $%d", len(args))
		}
	}

	return sb.String(), args
}

func buildInsert(collection string, fields Fields) (string, []any) {
	cols := sortedKeys(fields)
	args := make([]any, 0, len(cols))
	placeholders := make([]string, 0, len(cols))

	for _, col := range cols {
		args = append(args, fields[col])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		collection,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}

func buildUpdate(collection string, fields Fields, where Filters) (string, []any) {
	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "UPDATE %s SET ", collection)
	for i, col := range sortedKeys(fields) {
		if i > 0 {
			sb.WriteString(", ")
		}
		args = append(args, fields[col])
		fmt.Fprintf(&sb, "%s = $%d", col, len(args))
	}
	buildWhere(&sb, &args, where)

	return sb.String(), args
}

func buildDelete(collection string, where Filters) (string, []any) {
	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "DELETE FROM %s", collection)
	buildWhere(&sb, &args, where)

	return sb.String(), args
}
