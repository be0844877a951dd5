package persistence

import (
	"log/slog"
)

// Observer receives the non-fatal persistence outcomes the store does not
// surface to its callers.
type Observer interface {
	// Truncated reports a save that kept only the newest records.
	Truncated(total, kept int)
	// QuotaRecovered reports a quota failure answered by the emergency write.
	QuotaRecovered(kept int)
	// PersistFailed reports a failed storage operation. op is one of
	// "save", "load", "erase" or "emergency".
	PersistFailed(op string, err error)
}

// LogObserver reports persistence outcomes through slog.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o LogObserver) Truncated(total, kept int) {
	o.logger().Warn("hotspot record exceeded size ceiling, keeping newest",
		"total", total, "kept", kept)
}

func (o LogObserver) QuotaRecovered(kept int) {
	o.logger().Warn("storage quota exceeded, wrote emergency record", "kept", kept)
}

func (o LogObserver) PersistFailed(op string, err error) {
	o.logger().Error("hotspot persistence failed", "op", op, "error", err)
}

type nopObserver struct{}

func (nopObserver) Truncated(int, int)          {}
func (nopObserver) QuotaRecovered(int)          {}
func (nopObserver) PersistFailed(string, error) {}
