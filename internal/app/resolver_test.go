package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dealerhub/internal/adapters/dealersvc"
	"dealerhub/internal/app"
	"dealerhub/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	dealers map[int64]domain.Dealer
	reviews map[int64][]domain.Review

	listErr    error
	getErr     error
	reviewsErr error
	createErr  error
	countErr   error

	created []domain.Review

	makes  map[string]int64
	models map[string]bool
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		dealers: map[int64]domain.Dealer{},
		reviews: map[int64][]domain.Review{},
		makes:   map[string]int64{},
		models:  map[string]bool{},
	}
}

func (f *fakeRepo) UpsertDealer(ctx context.Context, d domain.Dealer) error {
	f.dealers[d.ID] = d
	return nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, r domain.Review) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, r)
	return int64(len(f.created)), nil
}

func (f *fakeRepo) UpsertMake(ctx context.Context, m domain.VehicleMake) (int64, error) {
	if id, ok := f.makes[m.Name]; ok {
		return id, nil
	}
	f.nextID++
	f.makes[m.Name] = f.nextID
	return f.nextID, nil
}

func (f *fakeRepo) UpsertModel(ctx context.Context, m domain.VehicleModel) error {
	f.models[fmt.Sprintf("%d|%s", m.MakeID, m.Name)] = true
	return nil
}

func (f *fakeRepo) ListDealers(ctx context.Context, state string) ([]domain.Dealer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Dealer
	for _, d := range f.dealers {
		if state == "" || d.State == state {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetDealer(ctx context.Context, id int64) (domain.Dealer, error) {
	if f.getErr != nil {
		return domain.Dealer{}, f.getErr
	}
	d, ok := f.dealers[id]
	if !ok {
		return domain.Dealer{}, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) ListReviewsByDealer(ctx context.Context, dealerID int64) ([]domain.Review, error) {
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews[dealerID], nil
}

func (f *fakeRepo) CountMakes(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.makes), nil
}

func (f *fakeRepo) ListCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	byID := map[int64]string{}
	for name, id := range f.makes {
		byID[id] = name
	}
	var out []domain.CatalogEntry
	for key := range f.models {
		var makeID int64
		var model string
		_, _ = fmt.Sscanf(key, "%d|", &makeID)
		for i := range key {
			if key[i] == '|' {
				model = key[i+1:]
				break
			}
		}
		out = append(out, domain.CatalogEntry{CarModel: model, CarMake: byID[makeID]})
	}
	return out, nil
}

type fakeGateway struct {
	dealers    []domain.Dealer
	dealer     domain.Dealer
	dealerOK   bool
	reviews    []domain.Review
	ack        domain.Ack
	listCalls  int
	getCalls   int
	revCalls   int
	submits    []domain.ReviewSubmission
}

func (g *fakeGateway) ListDealers(ctx context.Context, state string) []domain.Dealer {
	g.listCalls++
	return g.dealers
}
func (g *fakeGateway) GetDealer(ctx context.Context, id int64) (domain.Dealer, bool) {
	g.getCalls++
	return g.dealer, g.dealerOK
}
func (g *fakeGateway) ListReviews(ctx context.Context, dealerID int64) []domain.Review {
	g.revCalls++
	return g.reviews
}
func (g *fakeGateway) SubmitReview(ctx context.Context, s domain.ReviewSubmission) domain.Ack {
	g.submits = append(g.submits, s)
	return g.ack
}

type fakeClassifier struct {
	label domain.Label
	calls int
}

func (c *fakeClassifier) Analyze(ctx context.Context, text string) domain.Label {
	c.calls++
	return c.label
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Dealer:
		*d = v.(domain.Dealer)
	case *[]domain.Review:
		*d = v.([]domain.Review)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

func ptr[T any](v T) *T { return &v }

func newResolver(repo *fakeRepo, gw *fakeGateway, sc *fakeClassifier, cache *fakeCache) *app.Resolver {
	return app.NewResolver(repo, gw, sc, cache, 10*time.Minute)
}

// ---- tests ----

func TestListDealers_LocalWins(t *testing.T) {
	repo := newFakeRepo()
	repo.dealers[3] = domain.Dealer{ID: 3, FullName: "Hill Motors", State: "KS"}
	gw := &fakeGateway{}
	q := newResolver(repo, gw, &fakeClassifier{}, &fakeCache{})

	got := q.ListDealers(context.Background(), "")
	if len(got) != 1 || got[0].FullName != "Hill Motors" {
		t.Fatalf("unexpected dealers: %+v", got)
	}
	if gw.listCalls != 0 {
		t.Fatal("remote must not be consulted when the repository answers")
	}
}

func TestListDealers_RepoFailureFallsBackRemote(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection reset")
	gw := &fakeGateway{dealers: []domain.Dealer{{ID: 9, FullName: "Remote Motors"}}}
	q := newResolver(repo, gw, &fakeClassifier{}, &fakeCache{})

	got := q.ListDealers(context.Background(), "TX")
	if gw.listCalls != 1 {
		t.Fatalf("expected one remote attempt, got %d", gw.listCalls)
	}
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("unexpected dealers: %+v", got)
	}
}

// With the real gateway pointed at a dead service, a repository failure must
// surface exactly the placeholder dealer set.
func TestListDealers_RepoFailureServiceDownYieldsSamples(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	repo := newFakeRepo()
	repo.listErr = errors.New("db gone")
	q := app.NewResolver(repo, dealersvc.New(dead.URL, 100), &fakeClassifier{}, &fakeCache{}, time.Minute)

	got := q.ListDealers(context.Background(), "")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected placeholder dealers 1 and 2, got %+v", got)
	}
}

func TestGetDealer_InvalidID(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	q := newResolver(repo, gw, &fakeClassifier{}, &fakeCache{})

	_, err := q.GetDealer(context.Background(), 0)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if gw.getCalls != 0 {
		t.Fatal("invalid ids must not trigger a fetch")
	}
}

func TestGetDealer_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo()
	repo.dealers[42] = domain.Dealer{ID: 42, FullName: "Valley Autos"}
	cache := &fakeCache{}
	q := newResolver(repo, &fakeGateway{}, &fakeClassifier{}, cache)

	d, err := q.GetDealer(context.Background(), 42)
	if err != nil || d.FullName != "Valley Autos" {
		t.Fatalf("unexpected: %+v err=%v", d, err)
	}

	// Mutate repo to prove the second read comes from cache
	repo.dealers[42] = domain.Dealer{ID: 42, FullName: "SHOULD NOT SEE THIS"}
	d2, err := q.GetDealer(context.Background(), 42)
	if err != nil || d2.FullName != "Valley Autos" {
		t.Fatalf("expected cached dealer, got %+v err=%v", d2, err)
	}
}

func TestGetDealer_LocalMissFallsBackRemote(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{dealer: domain.Dealer{ID: 7, FullName: "Remote City Cars"}, dealerOK: true}
	cache := &fakeCache{}
	q := newResolver(repo, gw, &fakeClassifier{}, cache)

	d, err := q.GetDealer(context.Background(), 7)
	if err != nil || d.FullName != "Remote City Cars" {
		t.Fatalf("unexpected: %+v err=%v", d, err)
	}
	if _, ok := cache.store["dealer:7"]; ok {
		t.Fatal("degraded results must not be cached")
	}
}

func TestGetDealer_BothMiss(t *testing.T) {
	q := newResolver(newFakeRepo(), &fakeGateway{}, &fakeClassifier{}, &fakeCache{})
	_, err := q.GetDealer(context.Background(), 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDealerReviews_LocalNotReclassified(t *testing.T) {
	repo := newFakeRepo()
	repo.dealers[1] = domain.Dealer{ID: 1}
	repo.reviews[1] = []domain.Review{
		{ID: 10, DealerID: 1, Name: "Ana", Text: "Great", Sentiment: domain.SentimentPositive},
	}
	sc := &fakeClassifier{label: domain.SentimentNegative}
	q := newResolver(repo, &fakeGateway{}, sc, &fakeCache{})

	got, err := q.DealerReviews(context.Background(), 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected: %+v err=%v", got, err)
	}
	if got[0].Sentiment != domain.SentimentPositive {
		t.Fatalf("local label must survive, got %s", got[0].Sentiment)
	}
	if sc.calls != 0 {
		t.Fatal("locally sourced reviews must not be reclassified")
	}
}

func TestDealerReviews_RemoteFallbackLabelsUnclassified(t *testing.T) {
	repo := newFakeRepo() // dealer 5 absent locally
	gw := &fakeGateway{reviews: []domain.Review{
		{ID: 1, DealerID: 5, Text: "Terrible", Sentiment: ""},
		{ID: 2, DealerID: 5, Text: "Loved it", Sentiment: domain.SentimentPositive},
	}}
	sc := &fakeClassifier{label: domain.SentimentNegative}
	cache := &fakeCache{}
	q := newResolver(repo, gw, sc, cache)

	got, err := q.DealerReviews(context.Background(), 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if gw.revCalls != 1 {
		t.Fatalf("expected one remote attempt, got %d", gw.revCalls)
	}
	if got[0].Sentiment != domain.SentimentNegative {
		t.Fatalf("unlabeled review not classified: %+v", got[0])
	}
	if got[1].Sentiment != domain.SentimentPositive {
		t.Fatalf("labeled review must keep its label: %+v", got[1])
	}
	if sc.calls != 1 {
		t.Fatalf("classifier should run once, ran %d times", sc.calls)
	}
	if _, ok := cache.store["reviews:5"]; ok {
		t.Fatal("remote fallback results must not be cached")
	}
}

func TestDealerReviews_RepoErrorAbsorbed(t *testing.T) {
	repo := newFakeRepo()
	repo.dealers[2] = domain.Dealer{ID: 2}
	repo.reviewsErr = errors.New("lock wait timeout")
	gw := &fakeGateway{} // remote also empty
	q := newResolver(repo, gw, &fakeClassifier{}, &fakeCache{})

	got, err := q.DealerReviews(context.Background(), 2)
	if err != nil {
		t.Fatalf("repository errors must be absorbed, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestListVehicles_SeedsOnceOnEmptyCatalog(t *testing.T) {
	repo := newFakeRepo()
	q := newResolver(repo, &fakeGateway{}, &fakeClassifier{}, &fakeCache{})

	cars, err := q.ListVehicles(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cars) != 25 {
		t.Fatalf("expected 25 seeded models, got %d", len(cars))
	}

	// second call: catalog non-empty, still 25
	cars, err = q.ListVehicles(context.Background())
	if err != nil || len(cars) != 25 {
		t.Fatalf("expected stable catalog, got %d err=%v", len(cars), err)
	}
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	if err := app.SeedCatalog(context.Background(), repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := app.SeedCatalog(context.Background(), repo); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if len(repo.makes) != 5 {
		t.Fatalf("expected 5 makes, got %d", len(repo.makes))
	}
	if len(repo.models) != 25 {
		t.Fatalf("expected 25 models, got %d", len(repo.models))
	}
}
