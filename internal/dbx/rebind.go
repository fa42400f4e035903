package dbx

import (
	"strconv"
	"strings"
)

// Placeholder styles understood by Rebind.
const (
	Question = iota // ?, ?, ? (SQLite)
	Dollar          // $1, $2, $3 (Postgres)
)

// Rebind rewrites the "?" placeholders of query into the given style.
// Queries must not contain literal question marks.
func Rebind(style int, query string) string {
	if style != Dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
