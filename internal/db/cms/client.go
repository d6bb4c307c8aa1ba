// Package cms implements the content store over a headless CMS REST API.
package cms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	"github.com/kailas-cloud/contentdex/internal/version"
)

// Compile-time check: Store implements db.ContentStore.
var _ db.ContentStore = (*Store)(nil)

const (
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerOpen     = 30 * time.Second
	maxErrorBody           = 512
)

// Config holds connection parameters for the CMS.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
	// MaxRetries bounds retries of transient failures; zero disables retrying.
	MaxRetries      int
	BreakerFailures int
	BreakerOpen     time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Store implements db.ContentStore via the CMS REST API.
type Store struct {
	base       *url.URL
	token      string
	http       *http.Client
	maxRetries int
	failures   int
	openFor    time.Duration
	log        *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewStore creates a CMS store.
func NewStore(cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		base:       base,
		token:      cfg.APIToken,
		http:       hc,
		maxRetries: max(cfg.MaxRetries, 0),
		failures:   cfg.BreakerFailures,
		openFor:    cfg.BreakerOpen,
		log:        log,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
	if s.failures <= 0 {
		s.failures = defaultBreakerFailures
	}
	if s.openFor <= 0 {
		s.openFor = defaultBreakerOpen
	}
	return s, nil
}

// Find fetches entries of one collection.
// Transient failures are retried with exponential backoff; repeated
// failures open the collection's circuit breaker.
func (s *Store) Find(ctx context.Context, q *db.Query) ([]record.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	endpoint := s.base.JoinPath("api", q.Collection)
	endpoint.RawQuery = Encode(q).Encode()

	res, err := s.breaker(q.Collection).Execute(func() (any, error) {
		var recs []record.Record
		op := func() error {
			var err error
			recs, err = s.fetch(ctx, endpoint.String())
			return err
		}
		bo := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), uint64(s.maxRetries)), ctx)
		if err := backoff.Retry(op, bo); err != nil {
			return nil, err
		}
		return recs, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %s: %w", db.ErrUnavailable, q.Collection, err)
		}
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return res.([]record.Record), nil
}

// Ping checks that the CMS answers its health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base.JoinPath("_health").String(), http.NoBody)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() {
	s.http.CloseIdleConnections()
}

func (s *Store) fetch(ctx context.Context, endpoint string) ([]record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	recs, err := decodeList(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return recs, nil
}

// statusError classifies a non-200 response. Only 429 and 5xx are retried.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(fmt.Errorf("%w: %w", db.ErrCollectionNotFound, err))
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= http.StatusInternalServerError:
		return err
	default:
		return backoff.Permanent(err)
	}
}

func (s *Store) breaker(collection string) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[collection]; ok {
		return cb
	}
	failures := uint32(s.failures) //nolint:gosec // validated positive in NewStore
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cms:" + collection,
		MaxRequests: 1,
		Timeout:     s.openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, db.ErrCollectionNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	s.breakers[collection] = cb
	return cb
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
