package dealersvc

import (
	"strconv"
	"strings"
	"time"

	"dealerhub/internal/domain"
)

/********** alias registries (single source of truth) **********/

var dealerAliases = map[string][]string{
	"full_name":  {"full_name", "fullName", "name"},
	"city":       {"city"},
	"state":      {"state", "st"},
	"address":    {"address", "street", "address_line1"},
	"zip":        {"zip", "zip_code", "zipcode", "postal_code"},
	"short_name": {"short_name", "shortName"},
}

var reviewAliases = map[string][]string{
	"name":          {"name", "reviewer", "author"},
	"review":        {"review", "text", "review_text", "comment"},
	"purchase_date": {"purchase_date", "purchaseDate"},
	"car_make":      {"car_make", "carMake", "make"},
	"car_model":     {"car_model", "carModel", "model"},
	"sentiment":     {"sentiment"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getBool(m map[string]any, key string, def bool) bool {
	switch v := lookupAny(m, key).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

/********** record mapping **********/

func mapDealer(m map[string]any) domain.Dealer {
	d := domain.Dealer{
		FullName: firstNonEmptyAlias(m, dealerAliases, "full_name"),
		City:     firstNonEmptyAlias(m, dealerAliases, "city"),
		State:    firstNonEmptyAlias(m, dealerAliases, "state"),
		Address:  firstNonEmptyAlias(m, dealerAliases, "address"),
		Zip:      firstNonEmptyAlias(m, dealerAliases, "zip"),
	}
	if id := getFloatFlexible(m, "id", "dealer_id"); id != nil {
		d.ID = int64(*id)
	}
	d.Lat = getFloatFlexible(m, "lat", "latitude")
	d.Long = getFloatFlexible(m, "long", "lng", "lon", "longitude")
	d.ShortName = ptrStr(firstNonEmptyAlias(m, dealerAliases, "short_name"))
	return d
}

func mapDealers(raw []map[string]any) []domain.Dealer {
	out := make([]domain.Dealer, 0, len(raw))
	for _, m := range raw {
		out = append(out, mapDealer(m))
	}
	return out
}

func mapReview(dealerID int64, m map[string]any) domain.Review {
	rv := domain.Review{
		DealerID: dealerID,
		Name:     firstNonEmptyAlias(m, reviewAliases, "name"),
		Text:     firstNonEmptyAlias(m, reviewAliases, "review"),
		Purchase: getBool(m, "purchase", false),
	}
	if id := getFloatFlexible(m, "id", "review_id"); id != nil {
		rv.ID = int64(*id)
	}
	rv.PurchaseDate = parseDate(firstNonEmptyAlias(m, reviewAliases, "purchase_date"))
	rv.CarMake = ptrStr(firstNonEmptyAlias(m, reviewAliases, "car_make"))
	rv.CarModel = ptrStr(firstNonEmptyAlias(m, reviewAliases, "car_model"))
	if y := getFloatFlexible(m, "car_year", "carYear"); y != nil {
		yr := int(*y)
		rv.CarYear = &yr
	}
	// Only the three categorical values count as a label; anything else is
	// left empty for the resolution layer to classify.
	if l, ok := domain.ParseLabel(firstNonEmptyAlias(m, reviewAliases, "sentiment")); ok {
		rv.Sentiment = l
	}
	return rv
}

func mapReviews(dealerID int64, raw []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(raw))
	for _, m := range raw {
		out = append(out, mapReview(dealerID, m))
	}
	return out
}
