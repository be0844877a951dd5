package storage

import "strings"

// Scoped confines a Medium to a namespace: every key is prefixed with
// "<namespace>:" and Clear only erases keys inside the namespace, so a quota
// recovery cannot destroy unrelated state sharing the medium.
type Scoped struct {
	inner  Medium
	prefix string
}

// NewScoped wraps m in the given namespace.
func NewScoped(m Medium, namespace string) *Scoped {
	return &Scoped{inner: m, prefix: namespace + ":"}
}

// Namespace returns the namespace without the separator.
func (s *Scoped) Namespace() string {
	return strings.TrimSuffix(s.prefix, ":")
}

// Unwrap returns the shared medium.
func (s *Scoped) Unwrap() Medium {
	return s.inner
}

func (s *Scoped) Init() error  { return s.inner.Init() }
func (s *Scoped) Close() error { return s.inner.Close() }

func (s *Scoped) Get(key string) (string, bool, error) {
	return s.inner.Get(s.prefix + key)
}

func (s *Scoped) Set(key, value string) error {
	return s.inner.Set(s.prefix+key, value)
}

func (s *Scoped) Remove(key string) error {
	return s.inner.Remove(s.prefix + key)
}

// Clear removes only the keys inside the namespace.
func (s *Scoped) Clear() error {
	entries, err := s.inner.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Key, s.prefix) {
			continue
		}
		if err := s.inner.Remove(e.Key); err != nil {
			return err
		}
	}
	return nil
}

// Entries lists the namespace's keys with the prefix stripped.
func (s *Scoped) Entries() ([]Entry, error) {
	entries, err := s.inner.Entries()
	if err != nil {
		return nil, err
	}
	scoped := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if key, ok := strings.CutPrefix(e.Key, s.prefix); ok {
			scoped = append(scoped, Entry{Key: key, Size: e.Size})
		}
	}
	return scoped, nil
}

func (s *Scoped) Capacity() int64 { return s.inner.Capacity() }
