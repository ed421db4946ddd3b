package caching

import (
	"context"
	"sync"
	"time"

	"rentzy/internal/models"
)

type memoryItem struct {
	entry     *models.VerificationEntry
	value     string
	expiresAt time.Time
}

type rateWindow struct {
	count     int
	windowEnd time.Time
}

// memoryCacheService is the in-process default. Individual key operations are
// guarded by a single mutex; SweepExpired scans all keys and is driven by the
// background scheduler.
type memoryCacheService struct {
	mu      sync.Mutex
	entries map[string]memoryItem
	strings map[string]memoryItem
	rates   map[string]rateWindow

	now func() time.Time
}

func NewMemoryCacheService() CacheService {
	return &memoryCacheService{
		entries: make(map[string]memoryItem),
		strings: make(map[string]memoryItem),
		rates:   make(map[string]rateWindow),
		now:     time.Now,
	}
}

func (m *memoryCacheService) GetVerification(_ context.Context, email string) (*models.VerificationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Expired entries stay visible until swept so the caller can distinguish
	// an expired code from a missing one.
	item, ok := m.entries[verificationKey(email)]
	if !ok {
		return nil, nil
	}
	entry := *item.entry
	return &entry, nil
}

func (m *memoryCacheService) SetVerification(_ context.Context, email string, entry *models.VerificationEntry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *entry
	m.entries[verificationKey(email)] = memoryItem{
		entry:     &stored,
		expiresAt: m.now().Add(ttl + expiryGrace),
	}
	return nil
}

func (m *memoryCacheService) DeleteVerification(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, verificationKey(email))
	return nil
}

func (m *memoryCacheService) IsRateLimited(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.rates[key]
	if !ok || now.After(w.windowEnd) {
		w = rateWindow{count: 0, windowEnd: now.Add(window)}
	}
	w.count++
	m.rates[key] = w
	return w.count > limit, nil
}

func (m *memoryCacheService) SetString(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings[key] = memoryItem{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *memoryCacheService) GetString(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.strings[key]
	if !ok || m.now().After(item.expiresAt) {
		return "", nil // cache miss
	}
	return item.value, nil
}

func (m *memoryCacheService) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.strings, key)
	return nil
}

func (m *memoryCacheService) SweepExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, item := range m.entries {
		if now.After(item.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	for key, item := range m.strings {
		if now.After(item.expiresAt) {
			delete(m.strings, key)
			removed++
		}
	}
	for key, w := range m.rates {
		if now.After(w.windowEnd) {
			delete(m.rates, key)
		}
	}
	return removed, nil
}
