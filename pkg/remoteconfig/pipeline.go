package remoteconfig

import (
	"context"

	"github.com/Alwanly/service-config-client/pkg/logger"
)

// pipeline turns a winning raw value into an Event and persists the result:
// validate, read prior, transform, compare, notify, write.
type pipeline[T any] struct {
	cache             Cache[T]
	equality          Equality[T]
	transformer       Transformer[T]
	validator         Validator
	callback          Callback[T]
	onValidationError func(ctx context.Context, err error, raw any)
	log               *logger.CanonicalLogger
}

// run executes one cycle for the given raw value. Validation failures are
// advisory and never abort the cycle. Callback errors abort it before
// anything is persisted. The final configuration, callback replacement
// included, is written to the cache even when nothing changed.
func (p *pipeline[T]) run(ctx context.Context, endpoint string, raw any, loaded bool) (Event[T], error) {
	if err := p.validator.Validate(ctx, raw); err != nil {
		p.reportValidationError(ctx, err, raw)
	}

	previous, err := p.cache.Read(ctx)
	if err != nil {
		p.log.WithError(err).Error("cache read failed")
		previous = nil
	}

	next := p.transformer.Transform(raw)
	changed := !p.equality.Equal(previous, next)

	status := StatusLoaded
	if loaded {
		if changed {
			status = StatusUpdated
		} else {
			status = StatusEqual
		}
	}

	event := Event[T]{Status: status, Endpoint: endpoint, Configuration: next}

	replacement, err := p.callback(ctx, event)
	if err != nil {
		return Event[T]{}, err
	}
	if replacement != nil {
		event.Configuration = replacement
	}

	if err := p.cache.Write(ctx, event.Configuration); err != nil {
		p.log.WithError(err).Error("cache write failed")
	}

	return event, nil
}

func (p *pipeline[T]) reportValidationError(ctx context.Context, err error, raw any) {
	if p.onValidationError != nil {
		p.onValidationError(ctx, err, raw)
		return
	}
	p.log.WithError(err).Error("configuration validation failed", logger.Any("raw", raw))
}
