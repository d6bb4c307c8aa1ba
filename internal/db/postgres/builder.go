package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/filter"
)

// columns maps record fields stored outside the doc column.
var columns = map[string]string{
	category.FieldID:          "id",
	category.FieldDocumentID:  "document_id",
	category.FieldStatus:      "status",
	category.FieldPublishedAt: "published_at",
	category.FieldCreatedAt:   "created_at",
}

const selectList = `doc || jsonb_build_object(` +
	`'id', id, 'documentId', document_id, 'status', status, ` +
	`'publishedAt', published_at, 'createdAt', created_at)`

// TableName maps a collection to its table, e.g. video-episodes to video_episodes.
func TableName(collection string) string {
	return strings.ReplaceAll(collection, "-", "_")
}

type builder struct {
	args []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Build renders the query as parameterized SQL.
func Build(q *db.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	b := &builder{}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectList)
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier{TableName(q.Collection)}.Sanitize())

	var where []string
	if q.Status != "" {
		where = append(where, "status = "+b.arg(q.Status))
	}
	if !q.Filter.IsEmpty() {
		cond, err := b.expr(q.Filter)
		if err != nil {
			return "", nil, err
		}
		where = append(where, cond)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if q.Sort.Field != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.sortKey(q.Sort.Field))
		if q.Sort.Desc {
			sb.WriteString(" DESC NULLS LAST")
		} else {
			sb.WriteString(" ASC NULLS LAST")
		}
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.arg(q.Limit))
	}
	return sb.String(), b.args, nil
}

func (b *builder) expr(e filter.Expression) (string, error) {
	switch e.Kind() {
	case filter.KindContains:
		return fmt.Sprintf(`%s ILIKE '%%' || %s || '%%' ESCAPE '\'`,
			b.textField(e.Field()), b.arg(escapeLike(e.Value()))), nil
	case filter.KindHasRelation:
		rel := b.arg(e.Field())
		return fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(CASE jsonb_typeof(doc->%[1]s) `+
				`WHEN 'array' THEN doc->%[1]s WHEN 'object' THEN jsonb_build_array(doc->%[1]s) `+
				`ELSE '[]'::jsonb END) AS rel WHERE rel->>%[2]s = %[3]s)`,
			rel, b.arg(e.Key()), b.arg(e.Value())), nil
	case filter.KindOr, filter.KindAnd:
		sep := " OR "
		if e.Kind() == filter.KindAnd {
			sep = " AND "
		}
		children := e.Children()
		parts := make([]string, 0, len(children))
		for _, c := range children {
			p, err := b.expr(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	case filter.KindAll:
		return "TRUE", nil
	default:
		return "", fmt.Errorf("unsupported filter kind %q", e.Kind())
	}
}

func (b *builder) textField(field string) string {
	if col, ok := columns[field]; ok {
		return col + "::text"
	}
	return "(doc->>" + b.arg(field) + ")"
}

func (b *builder) sortKey(field string) string {
	if col, ok := columns[field]; ok {
		return col
	}
	return "(doc->>" + b.arg(field) + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
