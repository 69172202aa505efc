package domain

// Model years the catalog accepts. Anything outside is rejected at the
// boundary, not clamped.
const (
	MinCarYear = 2015
	MaxCarYear = 2023
)

func ValidCarYear(y int) bool { return y >= MinCarYear && y <= MaxCarYear }

type VehicleMake struct {
	ID          int64
	Name        string
	Description string
	Country     *string
	FoundedYear *int
	Website     *string
}

type VehicleModel struct {
	ID           int64
	MakeID       int64
	Name         string
	Type         string
	Year         int
	Engine       *string
	Fuel         *string
	Transmission *string
	Color        *string
	Price        *float64
}

// CatalogEntry is the read model for the vehicle catalog endpoint: one model
// joined with its make.
type CatalogEntry struct {
	CarModel string `json:"CarModel"`
	CarMake  string `json:"CarMake"`
}
