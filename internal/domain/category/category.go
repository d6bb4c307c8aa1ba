// Package category holds the static per-content-type search configuration.
package category

import (
	"fmt"
	"slices"
	"strings"
)

// Tag identifies a content category (article, video, ...).
type Tag string

// Known content categories.
const (
	Article    Tag = "article"
	Video      Tag = "video"
	Collection Tag = "collection"
	QA         Tag = "qa"
	Writing    Tag = "writing"
	Term       Tag = "term"
)

// AllKeyword selects the full default category set.
const AllKeyword = "all"

// Field names shared by every content type.
const (
	FieldID          = "id"
	FieldDocumentID  = "documentId"
	FieldSlug        = "slug"
	FieldPublishedAt = "publishedAt"
	FieldCreatedAt   = "createdAt"
	FieldStatus      = "status"

	// RelationCategories is the topical category-tag relation.
	RelationCategories = "categories"
	// CategorySlugKey is the key matched inside RelationCategories.
	CategorySlugKey = "slug"
)

// Descriptor is the search schema of one content category.
// Descriptors are immutable after registry construction.
type Descriptor struct {
	tag              Tag
	collection       string
	searchableFields []string
	titleField       string
	descriptionField string
	contentField     string
	parentRelation   string
	populate         []string
	routePrefix      string
}

// Params holds the inputs for NewDescriptor.
type Params struct {
	Tag        Tag
	Collection string
	// SearchableFields are ordered by priority: the title-like field first,
	// the description-like field second.
	SearchableFields []string
	TitleField       string
	// DescriptionField is the explicit short description, if the type has one.
	DescriptionField string
	// ContentField is truncated into a description when DescriptionField is empty.
	ContentField string
	// ParentRelation names the relation holding the parent collection (video only).
	ParentRelation string
	Populate       []string
	RoutePrefix    string
}

// NewDescriptor validates and creates a Descriptor.
func NewDescriptor(p Params) (Descriptor, error) {
	if p.Tag == "" {
		return Descriptor{}, fmt.Errorf("descriptor tag is required")
	}
	if p.Collection == "" {
		return Descriptor{}, fmt.Errorf("descriptor %q: collection is required", p.Tag)
	}
	if len(p.SearchableFields) == 0 {
		return Descriptor{}, fmt.Errorf("descriptor %q: at least one searchable field is required", p.Tag)
	}
	title := p.TitleField
	if title == "" {
		title = p.SearchableFields[0]
	}
	return Descriptor{
		tag:              p.Tag,
		collection:       p.Collection,
		searchableFields: slices.Clone(p.SearchableFields),
		titleField:       title,
		descriptionField: p.DescriptionField,
		contentField:     p.ContentField,
		parentRelation:   p.ParentRelation,
		populate:         slices.Clone(p.Populate),
		routePrefix:      strings.TrimSuffix(p.RoutePrefix, "/"),
	}, nil
}

// MustDescriptor calls NewDescriptor and panics on error.
func MustDescriptor(p Params) Descriptor {
	d, err := NewDescriptor(p)
	if err != nil {
		panic(err)
	}
	return d
}

// Tag returns the category tag.
func (d Descriptor) Tag() Tag { return d.tag }

// Collection returns the content-store collection name.
func (d Descriptor) Collection() string { return d.collection }

// SearchableFields returns a copy of the ordered searchable field list.
func (d Descriptor) SearchableFields() []string { return slices.Clone(d.searchableFields) }

// TitleField returns the field mapped onto the result title.
func (d Descriptor) TitleField() string { return d.titleField }

// DescriptionField returns the explicit description field, or "".
func (d Descriptor) DescriptionField() string { return d.descriptionField }

// ContentField returns the long-form content field, or "".
func (d Descriptor) ContentField() string { return d.contentField }

// ParentRelation returns the parent collection relation, or "".
func (d Descriptor) ParentRelation() string { return d.parentRelation }

// Populate returns a copy of the relations to resolve when fetching.
func (d Descriptor) Populate() []string { return slices.Clone(d.populate) }

// RoutePrefix returns the display URL prefix, e.g. "/articles".
func (d Descriptor) RoutePrefix() string { return d.routePrefix }
