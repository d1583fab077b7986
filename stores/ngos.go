package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/rescue-reporter/models"
	"github.com/redis/rueidis"
	"gorm.io/gorm"
)

const ngoListCacheKey string = "ngos:list"

type Ngos struct {
	db *gorm.DB
}

func NewNgos(db *gorm.DB) *Ngos {
	return &Ngos{db: db}
}

// List returns every NGO in registration order.
func (s *Ngos) List(ctx context.Context) ([]models.Ngo, error) {
	ngos := []models.Ngo{}

	if err := s.db.WithContext(ctx).Order("id ASC").Find(&ngos).Error; err != nil {
		return nil, storageError("list NGOs", err)
	}

	return ngos, nil
}

// Register creates the NGO unless one with the same name and phone exists,
// in which case n is filled with the stored record.
func (s *Ngos) Register(ctx context.Context, n *models.Ngo) error {
	if err := n.Validate(); err != nil {
		return err
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.db.WithContext(ctx).
		Where(&models.Ngo{Name: n.Name, Phone: n.Phone}).
		FirstOrCreate(n).Error; err != nil {
		return storageError("register NGO", err)
	}

	return nil
}

// CachedNgos keeps the NGO list in Redis with client-side caching. A nil
// client disables the cache.
type CachedNgos struct {
	store *Ngos
	cache rueidis.Client
	ttl   time.Duration
}

func NewCachedNgos(store *Ngos, cache rueidis.Client) *CachedNgos {
	return &CachedNgos{store: store, cache: cache, ttl: 15 * time.Minute}
}

func (s *CachedNgos) List(ctx context.Context) ([]models.Ngo, error) {
	if s.cache == nil {
		return s.store.List(ctx)
	}

	ngos := []models.Ngo{}

	cached, err := s.cache.DoCache(ctx, s.cache.B().Get().Key(ngoListCacheKey).Cache(), 5*time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached NGOs: %v", err))
	}

	if len(cached) > 0 {
		err := json.Unmarshal([]byte(cached), &ngos)
		if err == nil {
			return ngos, nil
		}

		slog.Error(fmt.Sprintf("Could not decode cached NGOs: %v", err))
	}

	ngos, err = s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(ngos)
	if err != nil {
		slog.Error(fmt.Sprintf("Could not serialize NGOs for cache: %v", err))
		return ngos, nil
	}

	if err := s.cache.Do(ctx, s.cache.B().Set().Key(ngoListCacheKey).Value(string(raw)).Ex(s.ttl).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not save NGOs to cache: %v", err))
	}

	return ngos, nil
}

func (s *CachedNgos) Register(ctx context.Context, n *models.Ngo) error {
	if err := s.store.Register(ctx, n); err != nil {
		return err
	}

	s.Invalidate(ctx)

	return nil
}

func (s *CachedNgos) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Do(ctx, s.cache.B().Del().Key(ngoListCacheKey).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not invalidate cached NGOs: %v", err))
	}
}
