// Package ratings computes running rating averages shared by reviews,
// leftovers and profile aggregates.
package ratings

// NewAverage folds one more star rating into a running average.
// A zero count means this is the first review, so the rating becomes
// the average as-is.
func NewAverage(current float64, count int, rating int) float64 {
	if count <= 0 {
		return float64(rating)
	}
	return (current*float64(count) + float64(rating)) / float64(count+1)
}
