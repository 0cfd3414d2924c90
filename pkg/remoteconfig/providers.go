package remoteconfig

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
)

// Fetcher retrieves the raw configuration value from a single endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (any, error)
}

// Cache persists the last known-good configuration. Implementations must be
// safe for concurrent use. A nil value from Read means nothing has been
// cached yet.
type Cache[T any] interface {
	Read(ctx context.Context) (*T, error)
	Write(ctx context.Context, configuration *T) error
}

// Equality decides whether two configurations are the same. Either argument
// may be nil.
type Equality[T any] interface {
	Equal(previous, next *T) bool
}

// Transformer converts the raw fetched value into the configuration type.
// Returning nil means the raw value carries no usable configuration.
type Transformer[T any] interface {
	Transform(raw any) *T
}

// Validator inspects the raw fetched value before it enters the pipeline.
// Validation failures are advisory: they are reported but never abort a cycle.
type Validator interface {
	Validate(ctx context.Context, raw any) error
}

// MemoryCache is the default Cache: a single mutex-guarded in-process slot.
type MemoryCache[T any] struct {
	mu    sync.Mutex
	value *T
}

func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{}
}

func (c *MemoryCache[T]) Read(ctx context.Context) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, nil
}

func (c *MemoryCache[T]) Write(ctx context.Context, configuration *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = configuration
	return nil
}

// DeepEquality is the default Equality: structural comparison via reflection.
type DeepEquality[T any] struct{}

func (DeepEquality[T]) Equal(previous, next *T) bool {
	if previous == nil || next == nil {
		return previous == next
	}
	return reflect.DeepEqual(*previous, *next)
}

// JSONTransformer is the default Transformer. It re-encodes the raw value as
// JSON and decodes it into T; empty raw values and decode failures collapse
// to nil.
type JSONTransformer[T any] struct{}

func (JSONTransformer[T]) Transform(raw any) *T {
	if IsEmpty(raw) {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

// NoopValidator is the default Validator. It accepts every value.
type NoopValidator struct{}

func (NoopValidator) Validate(ctx context.Context, raw any) error {
	return nil
}

// IsEmpty reports whether a raw fetched value carries no configuration:
// nil, false, a zero number, an empty string, or a zero-length map or slice.
func IsEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case json.Number:
		s := v.String()
		return s == "" || s == "0"
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
