package persistence

import (
	"errors"
	"fmt"

	"github.com/colortour/hotspot-editor/internal/storage"
	"github.com/colortour/hotspot-editor/pkg/core"
)

// EmergencyKeep is the number of newest hotspots kept by Recover.
const EmergencyKeep = 20

// ErrEmergencyWriteFailed is returned when even the reduced record cannot be
// written. Nothing further is attempted.
var ErrEmergencyWriteFailed = errors.New("emergency hotspot write failed")

// Policy answers a quota failure by clearing the medium and writing a
// reduced record. The medium must be dedicated to the editor; wrap shared
// media with storage.NewScoped so Clear leaves foreign keys alone.
type Policy struct {
	medium   storage.Medium
	key      string
	keep     int
	observer Observer
}

// NewPolicy creates a policy writing key on medium.
func NewPolicy(medium storage.Medium, key string, observer Observer) *Policy {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Policy{
		medium:   medium,
		key:      key,
		keep:     EmergencyKeep,
		observer: observer,
	}
}

// Recover clears the medium and stores the newest hotspots in emergency form.
func (p *Policy) Recover(hotspots []*core.Hotspot) error {
	if err := p.medium.Clear(); err != nil {
		p.observer.PersistFailed("emergency", err)
		return fmt.Errorf("%w: clearing medium: %w", ErrEmergencyWriteFailed, err)
	}

	newest := lastN(hotspots, p.keep)
	records := make([]Record, 0, len(newest))
	for _, h := range newest {
		records = append(records, Emergency(h))
	}

	data, err := Encode(records)
	if err != nil {
		p.observer.PersistFailed("emergency", err)
		return fmt.Errorf("%w: %w", ErrEmergencyWriteFailed, err)
	}
	if err := p.medium.Set(p.key, data); err != nil {
		p.observer.PersistFailed("emergency", err)
		return fmt.Errorf("%w: %w", ErrEmergencyWriteFailed, err)
	}

	p.observer.QuotaRecovered(len(records))
	return nil
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
