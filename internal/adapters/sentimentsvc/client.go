package sentimentsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"dealerhub/internal/adapters/observability"
	"dealerhub/internal/domain"
)

// Client calls the sentiment analyzer service. Any failure (connection,
// timeout, bad status, malformed body) degrades to the neutral label.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{base: base, hc: &http.Client{Timeout: 5 * time.Second}}
}

func (c *Client) Analyze(ctx context.Context, text string) domain.Label {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/analyze/"+url.PathEscape(text), nil)
	if err != nil {
		return domain.SentimentNeutral
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sentimentsvc", "analyze", 0, time.Since(start))
		observability.ObserveFallback("analyze", "neutral")
		log.Warn().Str("base", c.base).Err(err).Msg("sentiment service unavailable, defaulting to neutral")
		return domain.SentimentNeutral
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sentimentsvc", "analyze", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		observability.ObserveFallback("analyze", "neutral")
		return domain.SentimentNeutral
	}

	var out struct {
		Sentiment string `json:"sentiment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.ObserveFallback("analyze", "neutral")
		return domain.SentimentNeutral
	}
	label, ok := domain.ParseLabel(out.Sentiment)
	if !ok {
		observability.ObserveFallback("analyze", "neutral")
		return domain.SentimentNeutral
	}
	return label
}
