// Package clickup parses task rows synced from the work tracker into the
// warehouse: status payloads, custom fields, and dropdown label decoding.
package clickup

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CustomField is one custom field object on a task. Value is left untyped
// because the sync emits scalars, lists, numbers, and ids interchangeably.
type CustomField struct {
	Name       string     `json:"name"`
	Value      any        `json:"value"`
	TypeConfig TypeConfig `json:"type_config"`
}

// TypeConfig carries the dropdown options table for a field.
type TypeConfig struct {
	Options []Option `json:"options"`
}

// Option is one dropdown option. Label and Name are both populated in the
// wild depending on the field type; OrderIndex may arrive as a number or a
// numeric string.
type Option struct {
	ID         string `json:"id"`
	OrderIndex any    `json:"orderindex"`
	Label      string `json:"label"`
	Name       string `json:"name"`
}

// label returns the option's display text, preferring Label over Name.
func (o Option) label() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Name
}

// index returns the option's order index, if it has a usable one.
func (o Option) index() (int, bool) {
	return asIndex(o.OrderIndex)
}

// DecodeField resolves a field's selected value id(s) to display labels.
//
// Two identifier encodings exist in the source data: numeric order indexes
// and opaque string ids. Numeric values (including digit-only strings)
// resolve against option orderindex; everything else against option id.
// Unresolvable ids are dropped silently. Output order follows input order
// and no deduplication is applied.
func DecodeField(f CustomField) []string {
	ids := normalizeValues(f.Value)
	if len(ids) == 0 {
		return nil
	}

	var labels []string
	for _, id := range ids {
		if idx, ok := asIndex(id); ok {
			if label, found := lookupByIndex(f.TypeConfig.Options, idx); found {
				labels = append(labels, label)
			}
			continue
		}
		s, ok := id.(string)
		if !ok {
			continue
		}
		if label, found := lookupByID(f.TypeConfig.Options, s); found {
			labels = append(labels, label)
		}
	}
	return labels
}

// normalizeValues flattens a scalar-or-list field value into a list.
func normalizeValues(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []any{val}
	default:
		return []any{val}
	}
}

// asIndex converts a value to a numeric order index when possible.
// JSON numbers decode as float64; digit-only strings also count as numeric.
func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func lookupByIndex(options []Option, idx int) (string, bool) {
	for _, opt := range options {
		if oi, ok := opt.index(); ok && oi == idx {
			return opt.label(), true
		}
	}
	return "", false
}

func lookupByID(options []Option, id string) (string, bool) {
	for _, opt := range options {
		if opt.ID == id {
			return opt.label(), true
		}
	}
	return "", false
}
