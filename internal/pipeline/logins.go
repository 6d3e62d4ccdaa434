package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Login-history columns: source report on the left, appended roster
// columns on the right.
const (
	colLoginUsername = "Username"
	colLoginViews    = "Count of Views"
	colLoginLast     = "Last Login"

	colCountOfViews = "count_of_views"
	colLastLogin    = "last_login"
)

type loginRecord struct {
	views     string
	lastLogin string
}

// Logins runs stage 4: join the product login report onto the enriched
// roster by email and append view-count and last-login columns.
func (p *Pipeline) Logins(ctx context.Context) error {
	log := p.log()
	log.Info("stage 4: login data", zap.String("input", p.cfg.Pipeline.Enriched))

	table, err := ReadTable(p.cfg.Pipeline.Enriched)
	if err != nil {
		return err
	}
	loginTable, err := ReadTable(p.cfg.Pipeline.LoginData)
	if err != nil {
		return err
	}

	logins := loginIndex(loginTable)
	log.Info("loaded login records", zap.Int("count", len(logins)))

	matched := joinLogins(table, logins)

	table.AddColumns(colCountOfViews, colLastLogin)
	if err := WriteTable(p.cfg.Pipeline.Final, table); err != nil {
		return err
	}

	log.Info("stage 4 complete",
		zap.Int("rows", len(table.Rows)),
		zap.Int("matched", matched),
		zap.String("output", p.cfg.Pipeline.Final),
	)
	return nil
}

// loginIndex keys the report by lowercased username. The report carries
// aggregate "Total" rows that are not users and are skipped.
func loginIndex(t *Table) map[string]loginRecord {
	index := make(map[string]loginRecord)
	for _, row := range t.Rows {
		username := strings.TrimSpace(row[colLoginUsername])
		if username == "" || strings.EqualFold(username, "total") {
			continue
		}
		index[strings.ToLower(username)] = loginRecord{
			views:     row[colLoginViews],
			lastLogin: row[colLoginLast],
		}
	}
	return index
}

func joinLogins(table *Table, logins map[string]loginRecord) int {
	matched := 0
	for _, row := range table.Rows {
		email := strings.ToLower(strings.TrimSpace(row[colEmail]))
		if rec, ok := logins[email]; ok {
			row[colCountOfViews] = rec.views
			row[colLastLogin] = rec.lastLogin
			matched++
		} else {
			row[colCountOfViews] = ""
			row[colLastLogin] = ""
		}
	}
	return matched
}
