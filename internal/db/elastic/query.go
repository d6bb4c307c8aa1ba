package elastic

import (
	"strings"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/filter"
)

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// BuildQuery translates the filter and status into a bool query.
// Substring matching uses case-insensitive wildcard queries, which span words
// only on fields mapped by IndexMapping.
func BuildQuery(q *db.Query) *types.Query {
	var must []types.Query
	if q.Status != "" {
		must = append(must, termQuery(category.FieldStatus, q.Status))
	}
	if !q.Filter.IsEmpty() {
		must = append(must, expr(q.Filter))
	}
	if len(must) == 0 {
		return &types.Query{MatchAll: &types.MatchAllQuery{}}
	}
	return &types.Query{Bool: &types.BoolQuery{Filter: must}}
}

// BuildSort returns the sort clause; missing values go last.
func BuildSort(s db.Sort) []*types.SortOptions {
	if s.Field == "" {
		return nil
	}
	order := sortorder.Asc
	if s.Desc {
		order = sortorder.Desc
	}
	return []*types.SortOptions{
		{
			SortOptions: map[string]types.FieldSort{
				s.Field: {Order: &order, Missing: "_last"},
			},
		},
	}
}

func expr(e filter.Expression) types.Query {
	switch e.Kind() {
	case filter.KindContains:
		value := "*" + wildcardEscaper.Replace(e.Value()) + "*"
		insensitive := true
		return types.Query{
			Wildcard: map[string]types.WildcardQuery{
				e.Field(): {Value: &value, CaseInsensitive: &insensitive},
			},
		}
	case filter.KindHasRelation:
		return termQuery(e.Field()+"."+e.Key(), e.Value())
	case filter.KindOr:
		return types.Query{Bool: &types.BoolQuery{
			Should:             children(e),
			MinimumShouldMatch: "1",
		}}
	case filter.KindAnd:
		return types.Query{Bool: &types.BoolQuery{Filter: children(e)}}
	default:
		return types.Query{MatchAll: &types.MatchAllQuery{}}
	}
}

func children(e filter.Expression) []types.Query {
	cs := e.Children()
	out := make([]types.Query, 0, len(cs))
	for _, c := range cs {
		out = append(out, expr(c))
	}
	return out
}

func termQuery(field, value string) types.Query {
	return types.Query{
		Term: map[string]types.TermQuery{
			field: {Value: value},
		},
	}
}
