// Package cache memoizes expensive computations in a kv.Store as JSON.
//
// A hit is decoded and returned as is, with no recompute and no TTL refresh.
// A miss runs compute; empty results are handed back without being stored so
// that a transient "nothing yet" is never pinned for an hour. Values that no
// longer decode are dropped and recomputed.
package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"slices"
	"time"

	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"
	"followstats/internal/platform/metrics"
	"followstats/internal/platform/store/kv"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL applies when no WithTTL option is given
const DefaultTTL = time.Hour

// Emptier lets a result type decide whether it is worth caching
type Emptier interface{ Empty() bool }

type options struct {
	ttl   time.Duration
	group *singleflight.Group
	log   *logger.Logger
}

// Option tunes a Fetch call
type Option func(*options)

// WithTTL sets the expiry of stored values. 0 stores without expiry.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ttl = d
		}
	}
}

// Forever stores without expiry
func Forever() Option { return WithTTL(0) }

// WithSingleflight collapses concurrent misses on the same key into one
// compute within this process
func WithSingleflight(g *singleflight.Group) Option {
	return func(o *options) { o.group = g }
}

// WithLogger overrides the request scoped logger
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Fetch returns the value cached at key, computing and storing it on a miss
func Fetch[T any](ctx context.Context, store kv.Store, key string, compute func(context.Context) (T, error), opts ...Option) (T, error) {
	o := options{ttl: DefaultTTL}
	for _, fn := range opts {
		fn(&o)
	}
	log := o.log
	if log == nil {
		log = logger.C(ctx)
	}
	family := Family(key)

	var zero T
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		metrics.CacheTotal.WithLabelValues(family, "error").Inc()
		return zero, err
	}
	if ok {
		var v T
		derr := json.Unmarshal([]byte(raw), &v)
		if derr == nil {
			metrics.CacheTotal.WithLabelValues(family, "hit").Inc()
			log.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
		metrics.CacheTotal.WithLabelValues(family, "malformed").Inc()
		log.Warn().Err(derr).Str("key", key).Msg("cache value malformed, recomputing")
		if err := store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		}
	}

	metrics.CacheTotal.WithLabelValues(family, "miss").Inc()
	log.Debug().Str("key", key).Msg("cache miss")

	fill := func() (T, error) {
		v, err := compute(ctx)
		if err != nil {
			return zero, err
		}
		if IsEmpty(v) {
			metrics.CacheTotal.WithLabelValues(family, "skip_empty").Inc()
			return v, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return zero, perr.Wrapf(err, perr.ErrorCodeJSON, "cache: encode %s", key)
		}
		if err := store.Put(ctx, key, string(b), o.ttl); err != nil {
			metrics.CacheTotal.WithLabelValues(family, "error").Inc()
			return zero, err
		}
		metrics.CacheTotal.WithLabelValues(family, "store").Inc()
		return v, nil
	}

	if o.group == nil {
		return fill()
	}
	res, err, _ := o.group.Do(key, func() (any, error) { return fill() })
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}

// IsEmpty reports whether v is falsy: nil, zero length, false, a numeric
// zero, or an Emptier saying so. Such results are never cached.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if e, ok := v.(Emptier); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return e.Empty()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return rv.IsZero()
	}
	return false
}

// Memo binds a store to default options for a service
type Memo struct {
	store kv.Store
	opts  []Option
}

// NewMemo returns a Memo over store. opts apply to every Get.
func NewMemo(store kv.Store, opts ...Option) *Memo {
	return &Memo{store: store, opts: opts}
}

// Get is Fetch through m's store with m's options followed by extra
func Get[T any](ctx context.Context, m *Memo, key string, compute func(context.Context) (T, error), extra ...Option) (T, error) {
	return Fetch(ctx, m.store, key, compute, slices.Concat(m.opts, extra)...)
}

// Invalidate drops key so the next Get recomputes
func (m *Memo) Invalidate(ctx context.Context, key string) error {
	metrics.CacheTotal.WithLabelValues(Family(key), "invalidate").Inc()
	return m.store.Delete(ctx, key)
}

// Store returns the underlying store
func (m *Memo) Store() kv.Store { return m.store }
