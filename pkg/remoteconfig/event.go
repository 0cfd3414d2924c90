package remoteconfig

// Status classifies the outcome of a configuration cycle.
type Status string

const (
	// StatusError indicates every endpoint failed or returned an empty value.
	StatusError Status = "error"
	// StatusLoaded indicates the first successful load of this client.
	StatusLoaded Status = "loaded"
	// StatusUpdated indicates the fetched configuration differs from the cached one.
	StatusUpdated Status = "updated"
	// StatusEqual indicates the fetched configuration matches the cached one.
	StatusEqual Status = "equal"
	// StatusCached indicates the configuration was served without fetching.
	StatusCached Status = "cached"
)

// Event describes the outcome of one configuration cycle. Configuration is
// nil when no usable configuration was produced. Err is set only on
// StatusError events.
type Event[T any] struct {
	Status        Status `json:"status"`
	Endpoint      string `json:"endpoint,omitempty"`
	Configuration *T     `json:"configuration,omitempty"`
	Err           error  `json:"-"`
}
