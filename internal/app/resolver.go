package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"dealerhub/internal/adapters/observability"
	"dealerhub/internal/domain"
)

// Resolver serves every read through a two-state procedure: one local
// attempt, then at most one remote attempt. Repository failures never escape
// it; the caller always gets local data, remote data, a placeholder, or an
// empty result.
type Resolver struct {
	repo      domain.DealerRepository
	gw        domain.DealerGateway
	sentiment domain.SentimentClassifier
	cache     domain.Cache
	cacheTTL  time.Duration
}

func NewResolver(r domain.DealerRepository, gw domain.DealerGateway, sc domain.SentimentClassifier, c domain.Cache, ttl time.Duration) *Resolver {
	return &Resolver{repo: r, gw: gw, sentiment: sc, cache: c, cacheTTL: ttl}
}

func (s *Resolver) ListDealers(ctx context.Context, state string) []domain.Dealer {
	dealers, err := s.repo.ListDealers(ctx, state)
	if err != nil {
		log.Warn().Err(err).Str("state", state).Msg("dealer listing failed locally, resolving remote")
		observability.ObserveFallback("list_dealers", "remote")
		return s.gw.ListDealers(ctx, state)
	}
	return dealers
}

func (s *Resolver) GetDealer(ctx context.Context, id int64) (domain.Dealer, error) {
	if id <= 0 {
		return domain.Dealer{}, fmt.Errorf("%w: dealer id must be positive", domain.ErrInvalidInput)
	}

	key := fmt.Sprintf("dealer:%d", id)
	var d domain.Dealer
	if ok, _ := s.cache.Get(ctx, key, &d); ok {
		return d, nil
	}

	d, err := s.repo.GetDealer(ctx, id)
	if err == nil {
		_ = s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds()))
		return d, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Int64("id", id).Msg("dealer lookup failed locally, resolving remote")
	}
	observability.ObserveFallback("get_dealer", "remote")

	// Degraded results are served but never cached.
	if rd, ok := s.gw.GetDealer(ctx, id); ok {
		return rd, nil
	}
	return domain.Dealer{}, domain.ErrNotFound
}

func (s *Resolver) DealerReviews(ctx context.Context, dealerID int64) ([]domain.Review, error) {
	if dealerID <= 0 {
		return nil, fmt.Errorf("%w: dealer id must be positive", domain.ErrInvalidInput)
	}

	key := fmt.Sprintf("reviews:%d", dealerID)
	var cached []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	if _, err := s.repo.GetDealer(ctx, dealerID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Int64("dealer", dealerID).Msg("dealer lookup failed locally, resolving reviews remote")
		}
		return s.remoteReviews(ctx, dealerID), nil
	}

	revs, err := s.repo.ListReviewsByDealer(ctx, dealerID)
	if err != nil {
		log.Warn().Err(err).Int64("dealer", dealerID).Msg("review listing failed locally, resolving remote")
		return s.remoteReviews(ctx, dealerID), nil
	}

	// copy before caching so callers can't mutate the cached value
	out := make([]domain.Review, len(revs))
	copy(out, revs)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// remoteReviews fetches from the gateway and labels any review the remote
// source left unclassified. Labels are attached for this response only, never
// written back.
func (s *Resolver) remoteReviews(ctx context.Context, dealerID int64) []domain.Review {
	observability.ObserveFallback("dealer_reviews", "remote")
	revs := s.gw.ListReviews(ctx, dealerID)
	for i := range revs {
		if revs[i].Sentiment == "" {
			revs[i].Sentiment = s.sentiment.Analyze(ctx, revs[i].Text)
		}
	}
	return revs
}

// ListVehicles has a single source: the local catalog, seeded on first use.
func (s *Resolver) ListVehicles(ctx context.Context) ([]domain.CatalogEntry, error) {
	n, err := s.repo.CountMakes(ctx)
	if err == nil && n == 0 {
		if err := SeedCatalog(ctx, s.repo); err != nil {
			log.Warn().Err(err).Msg("catalog seeding failed")
		}
	}
	return s.repo.ListCatalog(ctx)
}
