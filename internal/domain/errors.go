package domain

import "errors"

// ErrInvalidRequest signals a malformed search request.
// Unknown tags and store failures degrade the page instead of failing it.
var ErrInvalidRequest = errors.New("invalid request")
