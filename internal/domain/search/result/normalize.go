package result

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

const ellipsis = "..."

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize maps a raw record of the descriptor's category onto a Result.
// Descriptions derived from long-form content are cut to descriptionLength runes.
// Missing optional fields yield empty values.
func Normalize(rec record.Record, desc category.Descriptor, score, descriptionLength int) Result {
	p := Params{
		ID:         rec.ID(category.FieldID),
		ExternalID: rec.ID(category.FieldDocumentID),
		Title:      rec.StringOr(desc.TitleField(), ""),
		Tag:        desc.Tag(),
		Slug:       rec.StringOr(category.FieldSlug, ""),
		Score:      score,
	}

	if f := desc.DescriptionField(); f != "" {
		p.Description = strings.TrimSpace(rec.StringOr(f, ""))
	}
	if p.Description == "" && desc.ContentField() != "" {
		p.Description = Truncate(PlainText(rec.Text(desc.ContentField())), descriptionLength)
	}

	if rel := desc.ParentRelation(); rel != "" {
		if parent := rec.Relation(rel); parent != nil {
			p.ParentSlug = parent.StringOr(category.FieldSlug, "")
		}
	}

	if t, ok := rec.Time(category.FieldPublishedAt); ok {
		p.Date = &t
	} else if t, ok := rec.Time(category.FieldCreatedAt); ok {
		p.Date = &t
	}

	p.URL = displayURL(desc.RoutePrefix(), p.ParentSlug, p.Slug)
	return New(p)
}

// PlainText strips markup tags and collapses whitespace.
func PlainText(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Truncate cuts s to at most limit runes, appending an ellipsis when shortened.
// A non-positive limit disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + ellipsis
}

func displayURL(prefix, parentSlug, slug string) string {
	if slug == "" {
		return ""
	}
	if parentSlug != "" {
		return prefix + "/" + parentSlug + "/" + slug
	}
	return prefix + "/" + slug
}
