// Package relevance scores a record against a free-text query with a
// substring-containment heuristic.
package relevance

import (
	"strings"

	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Point awards. Title beats description beats other fields; exact beats partial;
// a prefix match adds a small bonus on top of any containment award.
const (
	EmptyQuery          = 1
	ExactTitle          = 100
	TitleContains       = 50
	DescriptionContains = 30
	OtherContains       = 10
	PrefixBonus         = 5
)

// Score sums per-field awards for query over the ordered searchable fields.
// fields[0] is the title-like field, fields[1] the description-like field.
// Rich-text block fields are scored on their flattened text; absent fields contribute nothing.
func Score(r record.Record, query string, fields []string) int {
	if query == "" {
		return EmptyQuery
	}
	q := strings.ToLower(query)

	total := 0
	for i, f := range fields {
		raw := r.Text(f)
		if raw == "" {
			continue
		}
		v := strings.ToLower(raw)
		if !strings.Contains(v, q) {
			continue
		}

		switch {
		case i == 0 && v == q:
			total += ExactTitle
		case i == 0:
			total += TitleContains
		case i == 1:
			total += DescriptionContains
		default:
			total += OtherContains
		}
		if strings.HasPrefix(v, q) {
			total += PrefixBonus
		}
	}
	return total
}
