package reviews

import "time"

// Review is a star rating with an optional comment. A vendor reviews a
// supplier hub, or a hub reviews one of its upstream wholesale sources.
type Review struct {
	ID                 int64     `json:"id"`
	ReviewerVendorID   *int64    `json:"reviewer_vendor_id,omitempty"`
	ReviewerSupplierID *int64    `json:"reviewer_supplier_id,omitempty"`
	ReviewedSupplierID *int64    `json:"reviewed_supplier_id,omitempty"`
	ReviewedUpstreamID *int64    `json:"reviewed_upstream_id,omitempty"`
	ReviewerName       string    `json:"reviewer_name,omitempty"`
	ReviewedName       string    `json:"reviewed_name,omitempty"`
	Rating             int       `json:"rating"`
	Comment            *string   `json:"comment"`
	ReviewDate         time.Time `json:"review_date"`
	IsModerated        bool      `json:"is_moderated"`
}
