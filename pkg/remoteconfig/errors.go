package remoteconfig

import (
	"fmt"
	"strings"
)

// OptionsError reports invalid client options detected at construction.
type OptionsError struct {
	Message string
}

func (e *OptionsError) Error() string {
	return "invalid options: " + e.Message
}

// FetchError wraps a fetch failure for a single endpoint. The resolver
// reports it and moves on to the next endpoint.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UndefinedError reports an endpoint that responded without a usable
// configuration value.
type UndefinedError struct {
	Endpoint string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("endpoint %s returned no configuration", e.Endpoint)
}

// FailedError reports that the whole endpoint list was exhausted without a
// usable configuration. It is surfaced on the event, never raised.
type FailedError struct {
	Endpoints []string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("configuration failed for all endpoints: %s", strings.Join(e.Endpoints, ", "))
}
