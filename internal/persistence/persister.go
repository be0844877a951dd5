package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/colortour/hotspot-editor/internal/storage"
	"github.com/colortour/hotspot-editor/pkg/core"
)

const (
	// DefaultKey is the storage key holding the hotspot record.
	DefaultKey = "color_tour_hotspots"

	// MaxRecordBytes is the serialized size above which a save drops
	// older hotspots.
	MaxRecordBytes = 2 * 1024 * 1024

	// TruncateKeep is the number of newest records kept by an oversized save.
	TruncateKeep = 30
)

// Persister writes the hotspot collection to a storage medium as one record
// and reads it back.
type Persister struct {
	medium   storage.Medium
	key      string
	maxBytes int
	keep     int
	policy   *Policy
	observer Observer
	metrics  *persisterMetrics
}

// Option configures a Persister.
type Option func(*Persister)

// WithObserver routes truncation, recovery and failure reports to o.
func WithObserver(o Observer) Option {
	return func(p *Persister) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(p *Persister) {
		if key != "" {
			p.key = key
		}
	}
}

// WithLimits overrides MaxRecordBytes and TruncateKeep.
func WithLimits(maxBytes, keep int) Option {
	return func(p *Persister) {
		if maxBytes > 0 {
			p.maxBytes = maxBytes
		}
		if keep > 0 {
			p.keep = keep
		}
	}
}

// New creates a Persister on medium.
func New(medium storage.Medium, opts ...Option) (*Persister, error) {
	metrics, err := newPersisterMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create persistence metrics: %w", err)
	}

	p := &Persister{
		medium:   medium,
		key:      DefaultKey,
		maxBytes: MaxRecordBytes,
		keep:     TruncateKeep,
		observer: nopObserver{},
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.policy = NewPolicy(medium, p.key, p.observer)
	return p, nil
}

// Key returns the storage key in use.
func (p *Persister) Key() string {
	return p.key
}

// Medium returns the underlying medium.
func (p *Persister) Medium() storage.Medium {
	return p.medium
}

// Save writes hotspots, newest last. An oversized record keeps only the
// newest TruncateKeep entries; a quota failure hands over to the Policy.
// Failures never touch the caller's collection.
func (p *Persister) Save(hotspots []*core.Hotspot) error {
	ctx := context.Background()

	records := make([]Record, 0, len(hotspots))
	for _, h := range hotspots {
		records = append(records, Minimize(h))
	}

	data, err := Encode(records)
	if err != nil {
		p.fail(ctx, "save", err)
		return err
	}

	if len(data) > p.maxBytes && len(records) > p.keep {
		total := len(records)
		records = lastN(records, p.keep)
		data, err = Encode(records)
		if err != nil {
			p.fail(ctx, "save", err)
			return err
		}
		p.metrics.truncated.Add(ctx, 1)
		p.observer.Truncated(total, len(records))
	}

	p.metrics.saveBytes.Record(ctx, int64(len(data)))

	err = p.medium.Set(p.key, data)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrQuotaExceeded):
		p.metrics.recoveries.Add(ctx, 1)
		if rerr := p.policy.Recover(hotspots); rerr != nil {
			p.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "emergency")))
			return rerr
		}
		return nil
	default:
		p.fail(ctx, "save", err)
		return fmt.Errorf("writing %s: %w", p.key, err)
	}
}

// Load reads and restores the stored collection. ok is false when nothing
// has been stored yet.
func (p *Persister) Load() (hotspots []*core.Hotspot, ok bool, err error) {
	data, found, err := p.medium.Get(p.key)
	if err != nil {
		p.observer.PersistFailed("load", err)
		return nil, false, fmt.Errorf("reading %s: %w", p.key, err)
	}
	if !found {
		return nil, false, nil
	}

	records, _, err := Decode(data)
	if err != nil {
		p.observer.PersistFailed("load", err)
		return nil, false, err
	}

	hotspots = make([]*core.Hotspot, 0, len(records))
	for _, r := range records {
		hotspots = append(hotspots, Restore(r))
	}
	return hotspots, true, nil
}

// Erase removes the stored record.
func (p *Persister) Erase() error {
	if err := p.medium.Remove(p.key); err != nil {
		p.fail(context.Background(), "erase", err)
		return fmt.Errorf("removing %s: %w", p.key, err)
	}
	return nil
}

func (p *Persister) fail(ctx context.Context, op string, err error) {
	p.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	p.observer.PersistFailed(op, err)
}
