package elastic

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
)

// IndexMapping returns the explicit mapping of a collection index.
// Searchable fields use the wildcard type: on analyzed text a "*a b*" pattern
// is matched per token and never spans words.
func IndexMapping(d category.Descriptor) *types.TypeMapping {
	props := map[string]types.Property{
		category.FieldID:            types.NewKeywordProperty(),
		category.FieldDocumentID:    types.NewKeywordProperty(),
		category.FieldSlug:          types.NewKeywordProperty(),
		category.FieldStatus:        types.NewKeywordProperty(),
		category.FieldPublishedAt:   types.NewDateProperty(),
		category.FieldCreatedAt:     types.NewDateProperty(),
		category.RelationCategories: slugObject(),
	}
	if rel := d.ParentRelation(); rel != "" {
		props[rel] = slugObject()
	}
	for _, f := range d.SearchableFields() {
		props[f] = types.NewWildcardProperty()
	}
	return &types.TypeMapping{Properties: props}
}

func slugObject() types.Property {
	obj := types.NewObjectProperty()
	obj.Properties = map[string]types.Property{
		category.CategorySlugKey: types.NewKeywordProperty(),
	}
	return obj
}

// EnsureIndexes creates missing collection indexes with IndexMapping.
// Existing indexes are left untouched.
func (s *Store) EnsureIndexes(ctx context.Context, descs []category.Descriptor) error {
	for _, d := range descs {
		name := s.IndexName(d.Collection())

		exists, err := s.client.Indices.Exists(name).Do(ctx)
		if err != nil {
			return &db.Error{Op: db.OpEnsureIndex, Err: fmt.Errorf("check index %s: %w", name, err)}
		}
		if exists {
			continue
		}

		res, err := s.client.Indices.Create(name).Mappings(IndexMapping(d)).Do(ctx)
		if err != nil {
			return &db.Error{Op: db.OpEnsureIndex, Err: fmt.Errorf("create index %s: %w", name, err)}
		}
		if !res.Acknowledged {
			return &db.Error{Op: db.OpEnsureIndex, Err: fmt.Errorf("create index %s: not acknowledged", name)}
		}
	}
	return nil
}
