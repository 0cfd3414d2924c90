package remoteconfig

import (
	"context"

	"github.com/Alwanly/service-config-client/pkg/logger"
)

// resolver walks the ordered endpoint list and stops at the first endpoint
// that yields a usable raw value. Endpoints are always tried strictly in
// order, never concurrently.
type resolver struct {
	fetcher      Fetcher
	onFetchError func(ctx context.Context, err *FetchError)
	onUndefined  func(ctx context.Context, err *UndefinedError)
	log          *logger.CanonicalLogger
}

// resolve returns the winning endpoint and its raw value, or a FailedError
// covering the full list when every endpoint loses. Each losing endpoint is
// reported exactly once before the winner is found.
func (r *resolver) resolve(ctx context.Context, endpoints []string) (string, any, *FailedError) {
	for _, endpoint := range endpoints {
		raw, err := r.fetcher.Fetch(ctx, endpoint)
		if err != nil {
			r.reportFetchError(ctx, &FetchError{Endpoint: endpoint, Err: err})
			continue
		}

		if IsEmpty(raw) {
			r.reportUndefined(ctx, &UndefinedError{Endpoint: endpoint})
			continue
		}

		return endpoint, raw, nil
	}

	return "", nil, &FailedError{Endpoints: endpoints}
}

func (r *resolver) reportFetchError(ctx context.Context, ferr *FetchError) {
	if r.onFetchError != nil {
		r.onFetchError(ctx, ferr)
		return
	}
	r.log.WithError(ferr).Error("endpoint fetch failed", logger.String(logger.FieldEndpoint, ferr.Endpoint))
}

func (r *resolver) reportUndefined(ctx context.Context, uerr *UndefinedError) {
	if r.onUndefined != nil {
		r.onUndefined(ctx, uerr)
		return
	}
	r.log.Error("endpoint returned no configuration", logger.String(logger.FieldEndpoint, uerr.Endpoint))
}
