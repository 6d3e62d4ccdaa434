package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginTable(rows ...Row) *Table {
	return &Table{
		Header: []string{"Username", "Count of Views", "Last Login"},
		Rows:   rows,
	}
}

func TestLoginIndex_SkipsTotalsAndBlanks(t *testing.T) {
	index := loginIndex(loginTable(
		testRow("Username", "a@x.com", "Count of Views", "12", "Last Login", "2026-08-01"),
		testRow("Username", "Total", "Count of Views", "999"),
		testRow("Username", "TOTAL", "Count of Views", "999"),
		testRow("Username", ""),
	))

	require.Len(t, index, 1)
	assert.Equal(t, "12", index["a@x.com"].views)
}

func TestLoginIndex_LowercasesUsernames(t *testing.T) {
	index := loginIndex(loginTable(
		testRow("Username", "A@X.com", "Count of Views", "3", "Last Login", "2026-07-15"),
	))

	rec, ok := index["a@x.com"]
	require.True(t, ok)
	assert.Equal(t, "2026-07-15", rec.lastLogin)
}

func TestJoinLogins(t *testing.T) {
	logins := map[string]loginRecord{
		"a@x.com": {views: "5", lastLogin: "2026-08-20"},
	}
	table := &Table{
		Header: []string{"email"},
		Rows: []Row{
			testRow("email", "A@x.com"),
			testRow("email", "b@x.com"),
		},
	}

	matched := joinLogins(table, logins)

	assert.Equal(t, 1, matched)
	assert.Equal(t, "5", table.Rows[0]["count_of_views"])
	assert.Equal(t, "2026-08-20", table.Rows[0]["last_login"])
	assert.Equal(t, "", table.Rows[1]["count_of_views"])
	assert.Equal(t, "", table.Rows[1]["last_login"])
}
