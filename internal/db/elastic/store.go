// Package elastic implements the content store over Elasticsearch,
// one index per collection.
package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Compile-time checks.
var (
	_ db.ContentStore = (*Store)(nil)
	_ db.IndexEnsurer = (*Store)(nil)
)

// Config holds connection parameters.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	IndexPrefix string
}

// Store implements db.ContentStore via the typed Elasticsearch client.
type Store struct {
	client *elasticsearch.TypedClient
	prefix string
}

// NewStore creates a typed client. Connectivity is checked by Ping.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	esCfg := elasticsearch.Config{Addresses: cfg.Addrs}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewTypedClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client, prefix: cfg.IndexPrefix}, nil
}

// IndexName returns the index holding a collection.
func (s *Store) IndexName(collection string) string {
	return s.prefix + collection
}

// Find searches the collection's index.
func (s *Store) Find(ctx context.Context, q *db.Query) ([]record.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	req := s.client.Search().
		Index(s.IndexName(q.Collection)).
		Query(BuildQuery(q))
	if q.Limit > 0 {
		req = req.Size(q.Limit)
	}
	for _, so := range BuildSort(q.Sort) {
		req = req.Sort(so)
	}

	res, err := req.Do(ctx)
	if err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == http.StatusNotFound {
			err = fmt.Errorf("%w: %s: %w", db.ErrCollectionNotFound, q.Collection, err)
		}
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]record.Record, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		rec, err := decodeHit(hit)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Ping checks cluster connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.Ping().IsSuccess(ctx)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if !ok {
		return &db.Error{Op: db.OpPing, Err: db.ErrUnavailable}
	}
	return nil
}

// Close is a no-op; the transport holds no long-lived resources.
func (s *Store) Close() {}

func decodeHit(hit types.Hit) (record.Record, error) {
	var rec record.Record
	if err := json.Unmarshal(hit.Source_, &rec); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if rec == nil {
		rec = record.Record{}
	}
	if _, ok := rec[category.FieldDocumentID]; !ok && hit.Id_ != nil {
		rec[category.FieldDocumentID] = *hit.Id_
	}
	return rec, nil
}
