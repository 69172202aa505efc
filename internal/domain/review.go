package domain

import "time"

type Review struct {
	ID           int64
	DealerID     int64
	Name         string
	Text         string
	Purchase     bool
	PurchaseDate *time.Time
	CarMake      *string
	CarModel     *string
	CarYear      *int
	Sentiment    Label // empty only for remote records not yet classified
}

// ReviewSubmission is the inbound write payload. PurchaseDate stays a string
// here because the remote insert endpoint takes it verbatim.
type ReviewSubmission struct {
	DealerID     int64   `json:"dealership"`
	Name         string  `json:"name"`
	Review       string  `json:"review"`
	Purchase     bool    `json:"purchase"`
	PurchaseDate string  `json:"purchase_date,omitempty"`
	CarMake      *string `json:"car_make,omitempty"`
	CarModel     *string `json:"car_model,omitempty"`
	CarYear      *int    `json:"car_year,omitempty"`
}

// Ack is the acknowledgment shape shared by local persistence and the remote
// insert endpoint, so the submission pipeline can surface either verbatim.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	AckSuccess = "success"
	AckError   = "error"
)
