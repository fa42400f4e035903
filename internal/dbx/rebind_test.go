package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		style int
		in    string
		want  string
	}{
		{"question keeps query", Question, "SELECT 1 FROM t WHERE a = ? AND b = ?", "SELECT 1 FROM t WHERE a = ? AND b = ?"},
		{"dollar numbers in order", Dollar, "UPDATE t SET a = COALESCE(?, a) WHERE id = ?", "UPDATE t SET a = COALESCE($1, a) WHERE id = $2"},
		{"no placeholders", Dollar, "SELECT now()", "SELECT now()"},
		{"double digits", Dollar, "VALUES (?,?,?,?,?,?,?,?,?,?)", "VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.style, tt.in))
		})
	}
}
