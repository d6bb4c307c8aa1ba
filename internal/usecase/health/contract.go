package health

import "context"

// Pinger is any backend that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
