// FilePath: internal/store/validate.go
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roomsense/hub/internal/errors"
)

// orderTerm is one parsed ORDER BY term.
type orderTerm struct {
	column     string
	descending bool
}

// validIdent reports whether s is a safe collection or column
// identifier: letters, digits and underscores only, non-empty.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func checkCollection(name string) error {
	if !validIdent(name) {
		return errors.NewValidationError(fmt.Sprintf("invalid collection name %q", name), nil)
	}
	return nil
}

// checkColumns validates every key of a field or filter map.
func checkColumns(kind string, m map[string]any) error {
	for k := range m {
		if !validIdent(k) {
			return errors.NewValidationError(fmt.Sprintf("invalid %s column %q", kind, k), nil)
		}
	}
	return nil
}

// sortedKeys returns map keys in deterministic order so that built
// statements are stable across calls.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseOrderBy parses a comma-separated order-by expression.
// Supported term forms: "col", "-col", "col ASC", "col DESC".
func parseOrderBy(expr string) ([]orderTerm, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	var terms []orderTerm
	for _, raw := range strings.Split(expr, ",") {
		term := strings.TrimSpace(raw)
		if term == "" {
			return nil, errors.NewValidationError("empty order by term", nil)
		}

		desc := false
		if strings.HasPrefix(term, "-") {
			desc = true
			term = term[1:]
		}

		parts := strings.Fields(term)
		switch len(parts) {
		case 1:
			// bare column
		case 2:
			if desc {
				// "-col DESC" mixes both syntaxes
				return nil, errors.NewValidationError(fmt.Sprintf("malformed order by term %q", raw), nil)
			}
			switch strings.ToUpper(parts[1]) {
			case "ASC":
			case "DESC":
				desc = true
			default:
				return nil, errors.NewValidationError(fmt.Sprintf("malformed order by direction %q", parts[1]), nil)
			}
		default:
			return nil, errors.NewValidationError(fmt.Sprintf("malformed order by term %q", raw), nil)
		}

		col := parts[0]
		if !validIdent(col) {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid order by column %q", col), nil)
		}
		terms = append(terms, orderTerm{column: col, descending: desc})
	}
	return terms, nil
}

// checkSelectOptions validates ordering and pagination and returns the
// parsed order terms.
func checkSelectOptions(opts *SelectOptions) ([]orderTerm, error) {
	if opts == nil {
		return nil, nil
	}
	terms, err := parseOrderBy(opts.OrderBy)
	if err != nil {
		return nil, err
	}
	if opts.Limit < 0 {
		return nil, errors.NewValidationError("limit must not be negative", nil)
	}
	if opts.Offset < 0 {
		return nil, errors.NewValidationError("offset must not be negative", nil)
	}
	if opts.Offset > 0 && opts.Limit == 0 {
		return nil, errors.NewValidationError("offset requires a limit", nil)
	}
	return terms, nil
}
