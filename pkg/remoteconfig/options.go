package remoteconfig

import (
	"context"
	"time"

	"github.com/Alwanly/service-config-client/pkg/logger"
)

// Callback is invoked once per successful cycle, and once per read in
// override mode. A non-nil return value replaces the configuration that is
// cached and returned; a nil return keeps the computed one. Errors are not
// recovered and propagate to the caller of GetConfiguration or Refresh.
type Callback[T any] func(ctx context.Context, event Event[T]) (*T, error)

// Options configures a Client. Endpoints and Callback are required; every
// provider has a default described on its interface.
type Options[T any] struct {
	// Endpoints is the ordered list of locations to load configuration from.
	// Earlier endpoints win; later ones are fallbacks.
	Endpoints []string

	// Callback receives every configuration event.
	Callback Callback[T]

	// Override disables fetching, caching and polling entirely and serves
	// this value instead. Intended for local development.
	Override *T

	// Interval enables polling when greater than zero. Each successful
	// refresh schedules the next one.
	Interval time.Duration

	// Initialize triggers a fire-and-forget initial refresh when the client
	// is created.
	Initialize bool

	Fetcher     Fetcher
	Cache       Cache[T]
	Equality    Equality[T]
	Transformer Transformer[T]
	Validator   Validator
	Logger      *logger.CanonicalLogger

	// OnFetchError replaces the default logging of per-endpoint fetch
	// failures. It must not panic.
	OnFetchError func(ctx context.Context, err *FetchError)

	// OnValidationError replaces the default logging of advisory validation
	// failures. It receives the cause and the raw fetched value.
	OnValidationError func(ctx context.Context, err error, raw any)

	// OnConfigurationUndefined replaces the default logging of endpoints
	// that respond without a usable configuration.
	OnConfigurationUndefined func(ctx context.Context, err *UndefinedError)
}

func (o *Options[T]) validate() error {
	if len(o.Endpoints) == 0 {
		return &OptionsError{Message: "missing endpoints"}
	}
	if o.Callback == nil {
		return &OptionsError{Message: "missing callback method"}
	}
	return nil
}

// withDefaults fills every unset provider. Runs only after validate.
func (o *Options[T]) withDefaults() Options[T] {
	out := *o
	if out.Logger == nil {
		out.Logger = logger.NewNop()
	}
	if out.Fetcher == nil {
		out.Fetcher = NewHTTPFetcher(WithFetchLogger(out.Logger))
	}
	if out.Cache == nil {
		out.Cache = NewMemoryCache[T]()
	}
	if out.Equality == nil {
		out.Equality = DeepEquality[T]{}
	}
	if out.Transformer == nil {
		out.Transformer = JSONTransformer[T]{}
	}
	if out.Validator == nil {
		out.Validator = NoopValidator{}
	}
	return out
}
