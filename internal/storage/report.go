package storage

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// AssumedCapacity is used by reports when the medium is unbounded.
const AssumedCapacity = 5 * 1024 * 1024

// KeyUsage is the report line of one key.
type KeyUsage struct {
	Key   string
	Bytes int64
	Human string
}

// Report summarizes how much of a medium is in use. Informational only.
type Report struct {
	TotalBytes    int64
	CapacityBytes int64
	UsagePercent  float64
	Keys          []KeyUsage
}

// String renders the report the way the editor console prints it.
func (r Report) String() string {
	s := fmt.Sprintf("storage: %s of %s used (%.2f%%)",
		humanize.IBytes(uint64(r.TotalBytes)),
		humanize.IBytes(uint64(r.CapacityBytes)),
		r.UsagePercent,
	)
	for _, k := range r.Keys {
		s += fmt.Sprintf("\n  %s: %s", k.Key, k.Human)
	}
	return s
}

// BuildReport sums the sizes of every entry of m. Keys are sorted by size,
// largest first.
func BuildReport(m Medium) (Report, error) {
	entries, err := m.Entries()
	if err != nil {
		return Report{}, fmt.Errorf("listing entries: %w", err)
	}

	r := Report{CapacityBytes: m.Capacity()}
	if r.CapacityBytes <= 0 {
		r.CapacityBytes = AssumedCapacity
	}
	for _, e := range entries {
		r.TotalBytes += e.Size
		r.Keys = append(r.Keys, KeyUsage{
			Key:   e.Key,
			Bytes: e.Size,
			Human: humanize.IBytes(uint64(e.Size)),
		})
	}
	sort.SliceStable(r.Keys, func(i, j int) bool {
		if r.Keys[i].Bytes == r.Keys[j].Bytes {
			return r.Keys[i].Key < r.Keys[j].Key
		}
		return r.Keys[i].Bytes > r.Keys[j].Bytes
	})
	r.UsagePercent = float64(r.TotalBytes) / float64(r.CapacityBytes) * 100
	return r, nil
}
