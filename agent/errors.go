package agent

import (
	"errors"
)

// ErrNoResponse indicates the provider stream closed without delivering a
// final response.
var ErrNoResponse = errors.New("agent: stream ended without a response")
