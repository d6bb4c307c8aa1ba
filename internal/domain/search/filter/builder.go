package filter

import (
	"github.com/kailas-cloud/contentdex/internal/domain/category"
)

// Build derives the store filter for one category: an OR of case-insensitive
// contains predicates over the searchable fields (when query is non-empty),
// AND'd with category-tag membership (when categorySlug is non-empty).
// With neither, the result matches everything.
func Build(desc category.Descriptor, query, categorySlug string) Expression {
	var text Expression
	if query != "" {
		fields := desc.SearchableFields()
		preds := make([]Expression, 0, len(fields))
		for _, f := range fields {
			preds = append(preds, Contains(f, query))
		}
		text = Or(preds...)
	}

	var membership Expression
	if categorySlug != "" {
		membership = HasRelation(category.RelationCategories, category.CategorySlugKey, categorySlug)
	}

	return And(text, membership)
}
