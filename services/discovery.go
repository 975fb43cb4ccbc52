package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
)

// CategoryAll and LocationAll are the wildcard filter values the clients send.
const (
	CategoryAll = "Tous les services"
	LocationAll = "Toutes les villes"
)

const (
	verifiedProvidersKey = "providers:verified"
	providersCacheTTL    = 60 * time.Second
)

type SearchFilters struct {
	Category  string  `json:"category"`
	Location  string  `json:"location"`
	PriceMin  float64 `json:"price_min"`
	PriceMax  float64 `json:"price_max"`
	MinRating float64 `json:"min_rating"`
}

// FilterProviders applies the discovery predicate. Pure function: the input
// order is preserved and nothing is mutated. Unverified providers are never
// included, whatever the other filters say.
func FilterProviders(providers []models.ProviderProfile, query string, f SearchFilters) []models.ProviderProfile {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.ProviderProfile
	for _, p := range providers {
		if !p.Verified {
			continue
		}
		if q != "" && !matchesQuery(&p, q) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && !p.HasService(f.Category) {
			continue
		}
		if f.Location != "" && f.Location != LocationAll && p.Location != f.Location {
			continue
		}
		if p.HourlyRate < f.PriceMin || (f.PriceMax > 0 && p.HourlyRate > f.PriceMax) {
			continue
		}
		if p.Rating < f.MinRating {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p *models.ProviderProfile, q string) bool {
	if strings.Contains(strings.ToLower(p.User.Name), q) {
		return true
	}
	for _, s := range p.Services {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Cache is the slice of the redis client discovery needs. A nil Cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type DiscoveryService struct {
	providers repository.ProviderRepository
	cache     Cache
}

func NewDiscoveryService(providers repository.ProviderRepository, cache Cache) *DiscoveryService {
	return &DiscoveryService{providers: providers, cache: cache}
}

// Search loads the verified provider pool (through the cache when warm) and
// filters it in memory.
func (s *DiscoveryService) Search(ctx context.Context, query string, f SearchFilters) ([]models.ProviderProfile, error) {
	pool, err := s.verifiedPool(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProviders(pool, query, f), nil
}

func (s *DiscoveryService) verifiedPool(ctx context.Context) ([]models.ProviderProfile, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, verifiedProvidersKey); err == nil && raw != nil {
			var cached []models.ProviderProfile
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	pool, err := s.providers.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(pool); err == nil {
			if err := s.cache.Set(ctx, verifiedProvidersKey, raw, providersCacheTTL); err != nil {
				log.Printf("failed to cache provider pool: %v", err)
			}
		}
	}
	return pool, nil
}

// InvalidateCache drops the cached pool. Called after moderation decisions,
// profile edits and review writes so visibility and rating changes take
// effect immediately.
func (s *DiscoveryService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, verifiedProvidersKey); err != nil {
		log.Printf("failed to invalidate provider cache: %v", err)
	}
}

// GetProvider returns a single verified provider with rating projections.
func (s *DiscoveryService) GetProvider(ctx context.Context, userID uint) (*models.ProviderProfile, error) {
	return s.providers.GetByUserID(ctx, userID)
}
