package domain

import "context"

type DealerRepository interface {
	// Write paths
	UpsertDealer(ctx context.Context, d Dealer) error
	CreateReview(ctx context.Context, r Review) (int64, error)
	UpsertMake(ctx context.Context, m VehicleMake) (int64, error)
	UpsertModel(ctx context.Context, m VehicleModel) error

	// Read paths
	ListDealers(ctx context.Context, state string) ([]Dealer, error)
	GetDealer(ctx context.Context, id int64) (Dealer, error)
	ListReviewsByDealer(ctx context.Context, dealerID int64) ([]Review, error)
	CountMakes(ctx context.Context) (int, error)
	ListCatalog(ctx context.Context) ([]CatalogEntry, error)
}

// DealerGateway is the outbound client for the dealer/review service. None of
// its methods return an error: every failure mode collapses to a typed
// placeholder, empty, or synthetic-ack value.
type DealerGateway interface {
	ListDealers(ctx context.Context, state string) []Dealer
	GetDealer(ctx context.Context, id int64) (Dealer, bool)
	ListReviews(ctx context.Context, dealerID int64) []Review
	SubmitReview(ctx context.Context, s ReviewSubmission) Ack
}

// SentimentClassifier labels free text, returning neutral on any failure.
type SentimentClassifier interface {
	Analyze(ctx context.Context, text string) Label
}

// SentimentScorer is the optional local scoring path: raw polarity weights
// that Classify turns into a label.
type SentimentScorer interface {
	Scores(ctx context.Context, text string) (pos, neg, neu float64, err error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
