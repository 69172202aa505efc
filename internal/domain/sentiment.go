package domain

// Label is the categorical sentiment attached to every stored review.
type Label string

const (
	SentimentPositive Label = "positive"
	SentimentNeutral  Label = "neutral"
	SentimentNegative Label = "negative"
)

// ParseLabel validates a wire value. Unknown values are not coerced; callers
// decide the fallback.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Label(s), true
	}
	return "", false
}

// Classify picks the label whose weight strictly exceeds both others.
// Positive wins every tie, including the three-way tie. That asymmetry is
// load-bearing: downstream consumers were built against it, so it must not
// be symmetrized.
func Classify(pos, neg, neu float64) Label {
	if neg > pos && neg > neu {
		return SentimentNegative
	}
	if neu > neg && neu > pos {
		return SentimentNeutral
	}
	return SentimentPositive
}
