package cms

import (
	"net/url"
	"strconv"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/search/filter"
)

// Encode renders a query as CMS REST parameters.
//
// Filters use the bracketed operator syntax, e.g.
// filters[$and][0][$or][1][title][$containsi]=x and
// filters[$and][1][categories][slug][$eq]=ethics.
func Encode(q *db.Query) url.Values {
	v := url.Values{}
	if !q.Filter.IsEmpty() {
		encodeFilter(v, "filters", q.Filter)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Sort.Field != "" {
		dir := "asc"
		if q.Sort.Desc {
			dir = "desc"
		}
		v.Set("sort[0]", q.Sort.Field+":"+dir)
	}
	if q.Limit > 0 {
		v.Set("pagination[limit]", strconv.Itoa(q.Limit))
	}
	for i, rel := range q.Populate {
		v.Set("populate["+strconv.Itoa(i)+"]", rel)
	}
	return v
}

func encodeFilter(v url.Values, prefix string, e filter.Expression) {
	switch e.Kind() {
	case filter.KindContains:
		v.Set(prefix+"["+e.Field()+"][$containsi]", e.Value())
	case filter.KindHasRelation:
		v.Set(prefix+"["+e.Field()+"]["+e.Key()+"][$eq]", e.Value())
	case filter.KindOr, filter.KindAnd:
		op := "$or"
		if e.Kind() == filter.KindAnd {
			op = "$and"
		}
		for i, c := range e.Children() {
			encodeFilter(v, prefix+"["+op+"]["+strconv.Itoa(i)+"]", c)
		}
	}
}
