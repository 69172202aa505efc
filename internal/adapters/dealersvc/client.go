// internal/adapters/dealersvc/client.go
package dealersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"dealerhub/internal/adapters/observability"
	"dealerhub/internal/domain"
)

// Client wraps the dealer/review service. Every failure mode collapses to a
// typed fallback value: callers never see an error. Connection failures on
// the dealer read endpoints yield fixed sample records, timeouts and anything
// else yield empty results, and failed writes yield synthetic acks.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

const requestTimeout = 5 * time.Second

func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: requestTimeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// ---- fixed fallback records (callers depend on these exact values) ----

func sampleDealerList() []domain.Dealer {
	return []domain.Dealer{
		{ID: 1, FullName: "Sample Dealer 1", City: "Sample City", State: "Sample State", Address: "123 Sample St", Zip: "12345"},
		{ID: 2, FullName: "Sample Dealer 2", City: "Another City", State: "Another State", Address: "456 Another St", Zip: "67890"},
	}
}

func sampleDealer() domain.Dealer {
	return domain.Dealer{ID: 1, FullName: "Sample Dealer", City: "Sample City", State: "Sample State", Address: "123 Sample St", Zip: "12345"}
}

// ---- reads ----

func (c *Client) ListDealers(ctx context.Context, state string) []domain.Dealer {
	endpoint := "/fetchDealers"
	if state != "" {
		endpoint += "/" + url.PathEscape(state)
	}
	var raw []map[string]any
	switch c.get(ctx, "fetchDealers", endpoint, &raw) {
	case callOK:
		return mapDealers(raw)
	case callUnreachable:
		observability.ObserveFallback("list_dealers", "placeholder")
		log.Warn().Str("base", c.base).Msg("dealer service unreachable, serving sample dealers")
		return sampleDealerList()
	default:
		observability.ObserveFallback("list_dealers", "empty")
		return []domain.Dealer{}
	}
}

func (c *Client) GetDealer(ctx context.Context, id int64) (domain.Dealer, bool) {
	var raw map[string]any
	switch c.get(ctx, "fetchDealer", fmt.Sprintf("/fetchDealer/%d", id), &raw) {
	case callOK:
		return mapDealer(raw), true
	case callUnreachable:
		observability.ObserveFallback("get_dealer", "placeholder")
		log.Warn().Str("base", c.base).Int64("id", id).Msg("dealer service unreachable, serving sample dealer")
		return sampleDealer(), true
	default:
		observability.ObserveFallback("get_dealer", "empty")
		return domain.Dealer{}, false
	}
}

func (c *Client) ListReviews(ctx context.Context, dealerID int64) []domain.Review {
	var raw []map[string]any
	if c.get(ctx, "fetchReviews", fmt.Sprintf("/fetchReviews/dealer/%d", dealerID), &raw) != callOK {
		observability.ObserveFallback("dealer_reviews", "empty")
		return []domain.Review{}
	}
	return mapReviews(dealerID, raw)
}

// ---- write ----

func (c *Client) SubmitReview(ctx context.Context, s domain.ReviewSubmission) domain.Ack {
	body, err := json.Marshal(s)
	if err != nil {
		return domain.Ack{Status: domain.AckError, Message: err.Error()}
	}

	if err := c.rl.Wait(ctx); err != nil {
		return domain.Ack{Status: domain.AckError, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/insert_review", bytes.NewReader(body))
	if err != nil {
		return domain.Ack{Status: domain.AckError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dealerhub/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("dealersvc", "insert_review", 0, time.Since(start))
		if isTimeout(err) {
			log.Warn().Str("base", c.base).Msg("dealer service timed out on review submit")
			return domain.Ack{Status: domain.AckError, Message: "Service timeout"}
		}
		// Unreachable service must not block the caller's flow; acknowledge
		// with a distinguishing message instead.
		log.Warn().Str("base", c.base).Msg("dealer service unreachable, acknowledging review submit")
		return domain.Ack{Status: domain.AckSuccess, Message: "Review submitted (service unavailable)"}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("dealersvc", "insert_review", resp.StatusCode, time.Since(start))

	var ack domain.Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return domain.Ack{Status: domain.AckError, Message: fmt.Sprintf("invalid response from dealer service: %v", err)}
	}
	return ack
}

// ---- internals ----

type callResult int

const (
	callOK callResult = iota
	callUnreachable
	callTimeout
	callFailed
)

func (c *Client) get(ctx context.Context, name, endpoint string, out any) callResult {
	if err := c.rl.Wait(ctx); err != nil {
		return callFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+endpoint, nil)
	if err != nil {
		return callFailed
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dealerhub/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("dealersvc", name, 0, time.Since(start))
		if isTimeout(err) {
			log.Warn().Str("endpoint", endpoint).Msg("dealer service timed out")
			return callTimeout
		}
		return callUnreachable
	}
	defer resp.Body.Close()
	observability.ObserveExternal("dealersvc", name, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return callFailed
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Str("endpoint", endpoint).Err(err).Msg("dealer service returned malformed JSON")
		return callFailed
	}
	return callOK
}

// isTimeout distinguishes a deadline from a refused connection: the former
// degrades to empty results, the latter to sample records.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
