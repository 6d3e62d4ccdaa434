package match

import (
	"fmt"
	"strings"

	"github.com/dataiq/outreach-cli/internal/config"
	"github.com/dataiq/outreach-cli/internal/model"
)

// Match method tags recorded in the output's match_method column.
const (
	MethodOrgCode   = "org_code"
	MethodNameFuzzy = "name_fuzzy_match"
)

// Resolver maps a raw org code and/or free-text corporation name to a
// canonical task. It holds only immutable state and is safe for
// concurrent use once built.
type Resolver struct {
	aliases  config.Aliases
	orgIndex map[string]*model.TaskRecord
	names    []NameEntry
}

// NewResolver creates a resolver over pre-built indexes. Alias tables are
// passed explicitly so tests can substitute them.
func NewResolver(aliases config.Aliases, orgIndex map[string]*model.TaskRecord, names []NameEntry) *Resolver {
	return &Resolver{
		aliases:  aliases,
		orgIndex: orgIndex,
		names:    names,
	}
}

// Resolve applies the matching tiers in strict order, stopping at the
// first hit:
//
//  1. manual org-code alias, then canonical code through the org index
//  2. direct org-code lookup
//  3. corporation-name alias, then exact normalized-name scan
//  4. bidirectional containment over the name index, first match wins
//
// Tier 4 deliberately does no scoring: the first entry in scan order is
// accepted even when a longer, more specific name follows. Downstream
// consumers depend on this exact tie-break. Exhaustion returns (nil, "").
func (r *Resolver) Resolve(orgCode, corpName string) (*model.TaskRecord, string) {
	code := strings.ToUpper(strings.TrimSpace(orgCode))
	name := strings.ToUpper(strings.TrimSpace(corpName))

	// 1. Manual alias.
	if canonical, ok := r.aliases.OrgCodes[code]; ok {
		if task, found := r.orgIndex[canonical]; found {
			return task, fmt.Sprintf("alias(%s)", canonical)
		}
	}

	// 2. Direct org code.
	if code != "" {
		if task, found := r.orgIndex[code]; found {
			return task, MethodOrgCode
		}
	}

	// 3. Corporation name alias, exact match only.
	if canonical, ok := r.aliases.CorpNames[name]; ok {
		target := strings.ToUpper(canonical)
		for _, entry := range r.names {
			if entry.Normalized == target {
				return entry.Task, fmt.Sprintf("name_alias(%s)", target)
			}
		}
	}

	// 4. Fuzzy containment.
	if name != "" {
		for _, entry := range r.names {
			if strings.Contains(entry.Normalized, name) || strings.Contains(name, entry.Normalized) {
				return entry.Task, MethodNameFuzzy
			}
		}
	}

	return nil, ""
}
