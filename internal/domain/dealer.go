package domain

type Dealer struct {
	ID        int64
	FullName  string
	City      string
	State     string
	Address   string
	Zip       string
	Lat, Long *float64
	ShortName *string
}
