// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"dealerhub/internal/app"
	"dealerhub/internal/domain"
)

type Handlers struct {
	Q    *app.Resolver
	S    *app.Submitter
	Auth Authorizer
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/dealers", h.listDealers)
	s.mux.Get("/v1/dealers/{id}", h.getDealer)
	s.mux.Get("/v1/dealers/{id}/reviews", h.dealerReviews)
	s.mux.Get("/v1/cars", h.listCars)
	s.mux.Post("/v1/reviews", h.postReview)
}

// ---- wire shapes ----

type dealerJSON struct {
	ID        int64    `json:"id"`
	FullName  string   `json:"full_name"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Address   string   `json:"address"`
	Zip       string   `json:"zip"`
	Lat       *float64 `json:"lat,omitempty"`
	Long      *float64 `json:"long,omitempty"`
	ShortName *string  `json:"short_name,omitempty"`
}

type reviewJSON struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Dealership   int64   `json:"dealership"`
	Review       string  `json:"review"`
	Purchase     bool    `json:"purchase"`
	PurchaseDate string  `json:"purchase_date,omitempty"`
	CarMake      *string `json:"car_make,omitempty"`
	CarModel     *string `json:"car_model,omitempty"`
	CarYear      *int    `json:"car_year,omitempty"`
	Sentiment    string  `json:"sentiment"`
}

func toDealerJSON(d domain.Dealer) dealerJSON {
	return dealerJSON{
		ID: d.ID, FullName: d.FullName, City: d.City, State: d.State,
		Address: d.Address, Zip: d.Zip, Lat: d.Lat, Long: d.Long, ShortName: d.ShortName,
	}
}

func toReviewJSON(rv domain.Review) reviewJSON {
	out := reviewJSON{
		ID: rv.ID, Name: rv.Name, Dealership: rv.DealerID, Review: rv.Text,
		Purchase: rv.Purchase, CarMake: rv.CarMake, CarModel: rv.CarModel,
		CarYear: rv.CarYear, Sentiment: string(rv.Sentiment),
	}
	if rv.PurchaseDate != nil {
		out.PurchaseDate = rv.PurchaseDate.Format("2006-01-02")
	}
	return out
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "dealer not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "request could not be served")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- handlers ----

func (h *Handlers) listDealers(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	dealers := h.Q.ListDealers(r.Context(), state)

	out := make([]dealerJSON, 0, len(dealers))
	for _, d := range dealers {
		out = append(out, toDealerJSON(d))
	}
	writeWithETag(w, r, map[string]any{"status": 200, "dealers": out})
}

func (h *Handlers) getDealer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "dealer id must be a number")
		return
	}
	d, err := h.Q.GetDealer(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeWithETag(w, r, map[string]any{"status": 200, "dealer": toDealerJSON(d)})
}

func (h *Handlers) dealerReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "dealer id must be a number")
		return
	}
	revs, err := h.Q.DealerReviews(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]reviewJSON, 0, len(revs))
	for _, rv := range revs {
		out = append(out, toReviewJSON(rv))
	}
	writeWithETag(w, r, map[string]any{"status": 200, "reviews": out})
}

func (h *Handlers) listCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Q.ListVehicles(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Catalog Unavailable", "vehicle catalog could not be read")
		return
	}
	if cars == nil {
		cars = []domain.CatalogEntry{}
	}
	writeWithETag(w, r, map[string]any{"CarModels": cars})
}

func (h *Handlers) postReview(w http.ResponseWriter, r *http.Request) {
	var sub domain.ReviewSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}

	ack, err := h.S.Submit(r.Context(), h.Auth.Authorized(r), sub)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	// Degraded acks still answer 200; callers read the ack body.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ack); err != nil {
		log.Error().Err(err).Msg("failed to write review ack")
	}
}
