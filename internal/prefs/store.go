package prefs

import (
	"fmt"
	"sync"
)

// Store persists one opaque string per key. *database.DB satisfies it.
type Store interface {
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error
	UpdateSetting(key string, fn func(current string, ok bool) (string, error)) (string, error)
}

// Load reads the stored preferences. A missing or malformed value yields
// the defaults.
func Load(store Store) (Preferences, error) {
	raw, ok, err := store.GetSetting(Key)
	if err != nil {
		return Defaults(), fmt.Errorf("loading preferences: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}
	return Decode([]byte(raw)), nil
}

// Save replaces the stored preferences.
func Save(store Store, p Preferences) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := store.PutSetting(Key, string(data)); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// Mutate applies fn to the current preferences and stores the result as one
// read-modify-write, so concurrent toggles are never lost.
func Mutate(store Store, fn func(Preferences) Preferences) (Preferences, error) {
	var result Preferences
	_, err := store.UpdateSetting(Key, func(current string, ok bool) (string, error) {
		p := Defaults()
		if ok {
			p = Decode([]byte(current))
		}
		result = fn(p)
		data, err := Encode(result)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		return Defaults(), fmt.Errorf("updating preferences: %w", err)
	}
	return result, nil
}

// MemoryStore is an in-process Store, used by the static export and tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) GetSetting(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) PutSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) UpdateSetting(key string, fn func(string, bool) (string, error)) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.values[key]
	next, err := fn(cur, ok)
	if err != nil {
		return "", err
	}
	m.values[key] = next
	return next, nil
}
