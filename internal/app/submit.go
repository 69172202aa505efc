package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"dealerhub/internal/adapters/observability"
	"dealerhub/internal/domain"
)

// Submitter runs the review write path: authorization, classification, local
// persistence, and a last-resort remote submit when the local store cannot
// take the row.
type Submitter struct {
	repo   domain.DealerRepository
	gw     domain.DealerGateway
	remote domain.SentimentClassifier
	scorer domain.SentimentScorer // optional local scoring path
}

func NewSubmitter(r domain.DealerRepository, gw domain.DealerGateway, remote domain.SentimentClassifier, scorer domain.SentimentScorer) *Submitter {
	return &Submitter{repo: r, gw: gw, remote: remote, scorer: scorer}
}

// Submit returns a typed error only for forbidden, invalid-input, and
// dealer-not-found; every dependency failure resolves to an Ack.
func (s *Submitter) Submit(ctx context.Context, authorized bool, sub domain.ReviewSubmission) (domain.Ack, error) {
	if !authorized {
		return domain.Ack{}, domain.ErrForbidden
	}
	rv, err := buildReview(sub)
	if err != nil {
		return domain.Ack{}, err
	}

	_, err = s.repo.GetDealer(ctx, sub.DealerID)
	if errors.Is(err, domain.ErrNotFound) {
		// A remote-only dealer can't be referenced by a local foreign key,
		// so absence is terminal here.
		return domain.Ack{}, domain.ErrNotFound
	}
	if err != nil {
		log.Warn().Err(err).Int64("dealer", sub.DealerID).Msg("dealer lookup failed, submitting review remote")
		observability.ObserveFallback("submit_review", "remote")
		return s.gw.SubmitReview(ctx, sub), nil
	}

	rv.Sentiment = s.label(ctx, sub.Review)

	if _, err := s.repo.CreateReview(ctx, rv); err != nil {
		log.Warn().Err(err).Int64("dealer", sub.DealerID).Msg("local persistence failed, submitting review remote")
		observability.ObserveFallback("submit_review", "remote")
		return s.gw.SubmitReview(ctx, sub), nil
	}
	return domain.Ack{Status: domain.AckSuccess, Message: "Review added successfully"}, nil
}

// label prefers the local scorer when configured, then the remote classifier,
// and neutral when both are out.
func (s *Submitter) label(ctx context.Context, text string) domain.Label {
	if s.scorer != nil {
		pos, neg, neu, err := s.scorer.Scores(ctx, text)
		if err == nil {
			return domain.Classify(pos, neg, neu)
		}
		log.Warn().Err(err).Msg("local sentiment scoring failed")
	}
	if s.remote != nil {
		return s.remote.Analyze(ctx, text)
	}
	observability.ObserveFallback("submit_review", "neutral")
	return domain.SentimentNeutral
}

func buildReview(sub domain.ReviewSubmission) (domain.Review, error) {
	if sub.DealerID <= 0 {
		return domain.Review{}, fmt.Errorf("%w: dealership id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Name) == "" {
		return domain.Review{}, fmt.Errorf("%w: reviewer name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Review) == "" {
		return domain.Review{}, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
	}
	if sub.CarYear != nil && !domain.ValidCarYear(*sub.CarYear) {
		return domain.Review{}, fmt.Errorf("%w: car year must be between %d and %d", domain.ErrInvalidInput, domain.MinCarYear, domain.MaxCarYear)
	}

	rv := domain.Review{
		DealerID: sub.DealerID,
		Name:     sub.Name,
		Text:     sub.Review,
		Purchase: sub.Purchase,
		CarMake:  sub.CarMake,
		CarModel: sub.CarModel,
		CarYear:  sub.CarYear,
	}
	if sub.PurchaseDate != "" {
		t, err := time.Parse("2006-01-02", sub.PurchaseDate)
		if err != nil {
			return domain.Review{}, fmt.Errorf("%w: purchase_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		rv.PurchaseDate = &t
	}
	return rv, nil
}
