package geography

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoLocationColumn is returned when no column name contains the location hint.
var ErrNoLocationColumn = errors.New("no location column found")

// FindLocationColumn returns the first column, in declared order, whose
// lowercase name contains "location".
func FindLocationColumn(columns []string) (string, error) {
	return findColumnContaining(columns, defaultLocationHint)
}

// ResolveLocationColumn picks the column to count. A non-empty explicit
// selection wins and may be a header name (case-insensitive) or a 1-based
// "#N" index. Otherwise the first column containing hint is used.
func ResolveLocationColumn(columns []string, explicit, hint string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(columns, explicit)
	}
	if strings.TrimSpace(hint) == "" {
		hint = defaultLocationHint
	}
	return findColumnContaining(columns, hint)
}

func findColumnContaining(columns []string, hint string) (string, error) {
	needle := strings.ToLower(hint)
	for _, col := range columns {
		if strings.Contains(strings.ToLower(col), needle) {
			return col, nil
		}
	}
	return "", ErrNoLocationColumn
}

func matchExplicitColumn(columns []string, explicit string) (string, error) {
	trimmed := strings.TrimSpace(explicit)
	for _, col := range columns {
		if strings.EqualFold(col, trimmed) {
			return col, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return "", err
		}
		if idx >= len(columns) {
			return "", fmt.Errorf("column index %s is out of range", trimmed)
		}
		return columns[idx], nil
	}
	return "", fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}
