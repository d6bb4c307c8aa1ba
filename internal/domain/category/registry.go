package category

import (
	"strings"
)

// Registry is a read-only lookup table of descriptors keyed by tag.
type Registry struct {
	byTag    map[Tag]Descriptor
	defaults []Tag
}

// NewRegistry builds a registry. The order of descriptors is the default search order.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		byTag:    make(map[Tag]Descriptor, len(descriptors)),
		defaults: make([]Tag, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, dup := r.byTag[d.Tag()]; dup {
			continue
		}
		r.byTag[d.Tag()] = d
		r.defaults = append(r.defaults, d.Tag())
	}
	return r
}

// Lookup returns the descriptor registered for tag.
func (r *Registry) Lookup(tag Tag) (Descriptor, bool) {
	d, ok := r.byTag[tag]
	return d, ok
}

// Defaults returns the tags searched when no explicit set is requested.
func (r *Registry) Defaults() []Tag {
	out := make([]Tag, len(r.defaults))
	copy(out, r.defaults)
	return out
}

// Descriptors returns every registered descriptor in default order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.defaults))
	for _, t := range r.defaults {
		out = append(out, r.byTag[t])
	}
	return out
}

// Resolve returns the effective tag list: the defaults when tags is empty,
// otherwise tags as given (unknown tags included, the caller decides).
func (r *Registry) Resolve(tags []Tag) []Tag {
	if len(tags) == 0 {
		return r.Defaults()
	}
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// ParseTags parses a comma-separated tag list. An empty value or one containing
// "all" yields nil, which means the default set. Tags are lower-cased and deduplicated.
func ParseTags(raw string) []Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var tags []Tag
	seen := make(map[Tag]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == AllKeyword {
			return nil
		}
		t := Tag(part)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// Default returns the registry of the six built-in content categories.
func Default() *Registry {
	return NewRegistry(
		MustDescriptor(Params{
			Tag:              Article,
			Collection:       "articles",
			SearchableFields: []string{"title", "content", "description"},
			DescriptionField: "description",
			ContentField:     "content",
			Populate:         []string{"author", "coverImage", RelationCategories},
			RoutePrefix:      "/articles",
		}),
		MustDescriptor(Params{
			Tag:              Video,
			Collection:       "video-episodes",
			SearchableFields: []string{"title", "description"},
			DescriptionField: "description",
			ParentRelation:   "collection",
			Populate:         []string{"collection", "thumbnail", RelationCategories},
			RoutePrefix:      "/videos",
		}),
		MustDescriptor(Params{
			Tag:              Collection,
			Collection:       "episode-collections",
			SearchableFields: []string{"title", "description"},
			DescriptionField: "description",
			Populate:         []string{"coverImage", RelationCategories},
			RoutePrefix:      "/collections",
		}),
		MustDescriptor(Params{
			Tag:              QA,
			Collection:       "questions",
			SearchableFields: []string{"question", "answer"},
			TitleField:       "question",
			ContentField:     "answer",
			Populate:         []string{"author", RelationCategories},
			RoutePrefix:      "/qa",
		}),
		MustDescriptor(Params{
			Tag:              Writing,
			Collection:       "writings",
			SearchableFields: []string{"title", "excerpt", "content"},
			DescriptionField: "excerpt",
			ContentField:     "content",
			Populate:         []string{"author", "coverImage", RelationCategories},
			RoutePrefix:      "/writings",
		}),
		MustDescriptor(Params{
			Tag:              Term,
			Collection:       "glossary-terms",
			SearchableFields: []string{"term", "definition"},
			TitleField:       "term",
			ContentField:     "definition",
			Populate:         []string{RelationCategories},
			RoutePrefix:      "/glossary",
		}),
	)
}
