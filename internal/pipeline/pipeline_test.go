package pipeline

import (
	"go.uber.org/zap"

	"github.com/dataiq/outreach-cli/internal/config"
	"github.com/dataiq/outreach-cli/internal/match"
	"github.com/dataiq/outreach-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// newTestEngine builds a resolution engine directly from fixtures, the
// same way buildEngine does from the warehouse scan.
func newTestEngine(tasks []*model.TaskRecord, aliases config.Aliases, directory map[string]string) *engine {
	names := match.BuildNameIndex(tasks)
	return &engine{
		tasks:     tasks,
		names:     names,
		resolver:  match.NewResolver(aliases, match.BuildOrgIndex(tasks), names),
		facility:  match.NewFacilityResolver(names, directory, 0.6),
		directory: directory,
	}
}

func testRow(pairs ...string) Row {
	row := Row{}
	for i := 0; i+1 < len(pairs); i += 2 {
		row[pairs[i]] = pairs[i+1]
	}
	return row
}
