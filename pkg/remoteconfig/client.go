// Package remoteconfig loads application configuration from a prioritized
// list of remote endpoints, caches the last known-good value, detects
// changes, and optionally polls for updates, reporting every cycle to a
// consumer callback.
//
// Every collaborator the client depends on (fetch transport, cache medium,
// equality, transformation, validation) is a single-method provider that can
// be replaced through Options; defaults cover the common HTTP + in-memory
// case.
package remoteconfig

import (
	"context"
	"sync"

	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/google/uuid"
)

// Client orchestrates endpoint fallback, the configuration pipeline, and the
// polling timer. Create one with New.
type Client[T any] struct {
	endpoints []string
	callback  Callback[T]
	override  *T
	cache     Cache[T]
	log       *logger.CanonicalLogger

	resolver *resolver
	pipe     *pipeline[T]
	poller   *poller

	// mu serializes configuration cycles so overlapping Refresh calls cannot
	// interleave their cache reads and writes.
	mu     sync.Mutex
	loaded bool
}

// New validates the options and builds a client. When Initialize is set, the
// initial refresh starts in the background once construction has completed.
func New[T any](opts Options[T]) (*Client[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	c := &Client[T]{
		endpoints: append([]string(nil), opts.Endpoints...),
		callback:  opts.Callback,
		override:  opts.Override,
		cache:     opts.Cache,
		log:       opts.Logger,
	}

	c.resolver = &resolver{
		fetcher:      opts.Fetcher,
		onFetchError: opts.OnFetchError,
		onUndefined:  opts.OnConfigurationUndefined,
		log:          opts.Logger,
	}

	c.pipe = &pipeline[T]{
		cache:             opts.Cache,
		equality:          opts.Equality,
		transformer:       opts.Transformer,
		validator:         opts.Validator,
		callback:          opts.Callback,
		onValidationError: opts.OnValidationError,
		log:               opts.Logger,
	}

	c.poller = newPoller(opts.Interval, func() {
		_, _ = c.Refresh(context.Background())
	}, opts.Logger)

	if opts.Initialize {
		go func() {
			_, _ = c.Refresh(context.Background())
		}()
	}

	return c, nil
}

// GetConfiguration returns the cached configuration when one exists and
// otherwise refreshes from the endpoints. The cache-hit path issues no
// fetches, invokes no callback, and never touches the polling timer.
func (c *Client[T]) GetConfiguration(ctx context.Context) (Event[T], error) {
	if c.override != nil {
		return c.serveOverride(ctx)
	}

	cached, err := c.cache.Read(ctx)
	if err != nil {
		c.log.WithError(err).Error("cache read failed")
	}
	if cached != nil {
		return Event[T]{Status: StatusCached, Configuration: cached}, nil
	}

	return c.Refresh(ctx)
}

// Refresh bypasses the cache read and re-fetches from the endpoints. Any
// pending poll timer is cancelled first; a successful cycle re-arms it.
// Exhausting every endpoint is returned as a StatusError event, not as an
// error: only a failing consumer callback produces a non-nil error.
func (c *Client[T]) Refresh(ctx context.Context) (Event[T], error) {
	if c.override != nil {
		return c.serveOverride(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.poller.cancel()

	cycle := uuid.NewString()
	c.log.Debug("refresh started", logger.String(logger.FieldCycleID, cycle))

	endpoint, raw, failed := c.resolver.resolve(ctx, c.endpoints)
	if failed != nil {
		c.log.WithError(failed).Error("all endpoints exhausted",
			logger.String(logger.FieldCycleID, cycle),
			logger.Strings("endpoints", failed.Endpoints),
		)
		return Event[T]{Status: StatusError, Err: failed}, nil
	}

	event, err := c.pipe.run(ctx, endpoint, raw, c.loaded)
	if err != nil {
		return Event[T]{}, err
	}

	c.loaded = true
	c.poller.schedule()

	c.log.Info("configuration cycle completed",
		logger.String(logger.FieldCycleID, cycle),
		logger.String(logger.FieldEndpoint, endpoint),
		logger.String(logger.FieldStatus, string(event.Status)),
	)
	return event, nil
}

// Pause suspends polling and cancels any pending timer. Idempotent.
func (c *Client[T]) Pause() {
	c.poller.pause()
}

// Resume re-enables polling. The next fetch happens when the re-armed timer
// elapses, never immediately.
func (c *Client[T]) Resume() {
	c.poller.resume()
}

// serveOverride implements the local-development short-circuit: the override
// value goes straight to the callback as a cached event, and nothing is
// fetched, cached, or scheduled.
func (c *Client[T]) serveOverride(ctx context.Context) (Event[T], error) {
	event := Event[T]{Status: StatusCached, Configuration: c.override}

	replacement, err := c.callback(ctx, event)
	if err != nil {
		return Event[T]{}, err
	}
	if replacement != nil {
		event.Configuration = replacement
	}

	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()

	return event, nil
}
