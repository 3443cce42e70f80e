package catalog

import "time"

// Unit is a unit of measure for products and leftover listings.
type Unit string

// Supported units of measure.
const (
	UnitKg    Unit = "kg"
	UnitGram  Unit = "gram"
	UnitPiece Unit = "piece"
	UnitBunch Unit = "bunch"
	UnitLiter Unit = "liter"
	UnitML    Unit = "ml"
	UnitDozen Unit = "dozen"
	UnitUnit  Unit = "unit"
)

// ValidUnit reports whether u is a known unit of measure.
func ValidUnit(u Unit) bool {
	switch u {
	case UnitKg, UnitGram, UnitPiece, UnitBunch, UnitLiter, UnitML, UnitDozen, UnitUnit:
		return true
	}
	return false
}

// Grade is a product quality grade.
type Grade string

// Supported quality grades.
const (
	GradeA        Grade = "grade_a"
	GradeB        Grade = "grade_b"
	GradeStandard Grade = "standard"
	GradePremium  Grade = "premium"
	GradeOrganic  Grade = "organic"
)

// ValidGrade reports whether g is a known quality grade.
func ValidGrade(g Grade) bool {
	switch g {
	case GradeA, GradeB, GradeStandard, GradePremium, GradeOrganic:
		return true
	}
	return false
}

// Category groups raw materials.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Product is a raw material offered by a supplier hub.
type Product struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         *string   `json:"description"`
	CategoryID          *int64    `json:"category_id"`
	CategoryName        *string   `json:"category_name,omitempty"`
	SupplierID          int64     `json:"supplier_id"`
	SupplierName        string    `json:"supplier_name,omitempty"`
	UnitOfMeasure       Unit      `json:"unit_of_measure"`
	CurrentPricePerUnit float64   `json:"current_price_per_unit"`
	QuantityAvailable   float64   `json:"quantity_available"`
	QualityGrade        Grade     `json:"quality_grade"`
	IsOrganic           bool      `json:"is_organic"`
	SuggestedMinPrice   *float64  `json:"suggested_min_price"`
	SuggestedMaxPrice   *float64  `json:"suggested_max_price"`
	LastUpdated         time.Time `json:"last_updated"`
}

// BrowseFilter narrows the vendor-facing product listing.
type BrowseFilter struct {
	Pincode    string
	Search     string
	CategoryID int64
}
