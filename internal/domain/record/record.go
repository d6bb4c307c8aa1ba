// Package record wraps raw content-store records with typed accessors.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Record is a raw, JSON-shaped content item with its populated relations inlined.
type Record map[string]any

// timeLayouts are tried in order when a timestamp is stored as a string.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02",
}

// String returns the field value when it is a string.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// StringOr returns the string field value or def.
func (r Record) StringOr(key, def string) string {
	if s, ok := r.String(key); ok {
		return s
	}
	return def
}

// Text returns the plain text of a field: a string as-is, or the concatenated
// text leaves of a rich-text block tree.
func (r Record) Text(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []any:
		var b strings.Builder
		collectText(&b, v)
		return strings.TrimSpace(b.String())
	default:
		return ""
	}
}

func collectText(b *strings.Builder, node any) {
	switch n := node.(type) {
	case []any:
		for _, child := range n {
			collectText(b, child)
		}
	case map[string]any:
		if t, ok := n["text"].(string); ok {
			b.WriteString(t)
		}
		if children, ok := n["children"]; ok {
			collectText(b, children)
			if _, isBlock := n["type"]; isBlock && n["type"] != "text" {
				b.WriteByte(' ')
			}
		}
	}
}

// Time parses the field as a timestamp.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		if v == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ID renders an identifier field (numeric or string) as a string.
func (r Record) ID(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Relation returns a to-one relation, or nil.
func (r Record) Relation(key string) Record {
	return asRecord(r[key])
}

// Relations returns a to-many relation. A to-one value is returned as a single element.
func (r Record) Relations(key string) []Record {
	switch v := r[key].(type) {
	case []any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			if rec := asRecord(item); rec != nil {
				out = append(out, rec)
			}
		}
		return out
	case []map[string]any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			out = append(out, Record(item))
		}
		return out
	case []Record:
		return v
	default:
		if rec := asRecord(v); rec != nil {
			return []Record{rec}
		}
		return nil
	}
}

// HasRelation reports whether any related record has key equal to value.
func (r Record) HasRelation(relation, key, value string) bool {
	for _, rel := range r.Relations(relation) {
		if s, ok := rel.String(key); ok && s == value {
			return true
		}
	}
	return false
}

func asRecord(v any) Record {
	switch m := v.(type) {
	case Record:
		return m
	case map[string]any:
		return Record(m)
	default:
		return nil
	}
}
