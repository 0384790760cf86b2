package domain

// Category is the sentiment bucket of an NPS score. It is a closed set:
// the classifier, the submission branching and the redirect decision all
// switch exhaustively over these three values.
type Category string

const (
	CategoryPromoter  Category = "promoter"
	CategoryPassive   Category = "passive"
	CategoryDetractor Category = "detractor"
)

// Score bounds for an NPS submission.
const (
	MinScore = 0
	MaxScore = 10
)

// Standard NPS thresholds: 9-10 promoter, 7-8 passive, 0-6 detractor.
// Endpoints may override these per link.
const (
	DefaultPromoterThreshold = 9
	DefaultPassiveThreshold  = 7
)

// Classify maps a score to its category given the endpoint's thresholds.
// Pure and total over 0..10; out-of-range scores are the caller's
// validation concern.
func Classify(score, promoterThreshold, passiveThreshold int) Category {
	switch {
	case score >= promoterThreshold:
		return CategoryPromoter
	case score >= passiveThreshold:
		return CategoryPassive
	default:
		return CategoryDetractor
	}
}

// Valid reports whether the value is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPromoter, CategoryPassive, CategoryDetractor:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
