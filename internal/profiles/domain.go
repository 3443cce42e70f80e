package profiles

import "time"

// VendorProfile describes a street-food vendor. Keyed on the owning user id.
type VendorProfile struct {
	UserID                int64   `json:"user_id"`
	Name                  string  `json:"name"`
	LocationPincode       string  `json:"location_pincode"`
	LocationAddress       *string `json:"location_address"`
	TypeOfFood            *string `json:"type_of_food"`
	AverageRatingAsSeller float64 `json:"average_rating_as_seller"`
	TotalReviewsAsSeller  int     `json:"total_reviews_as_seller"`
}

// SupplierProfile describes a micro-supply hub. Keyed on the owning user id.
type SupplierProfile struct {
	UserID                      int64   `json:"user_id"`
	BusinessName                string  `json:"business_name"`
	ContactPerson               string  `json:"contact_person"`
	PhoneNumber                 string  `json:"phone_number"`
	Email                       *string `json:"email"`
	LocationPincode             string  `json:"location_pincode"`
	LocationAddress             string  `json:"location_address"`
	BusinessRegistrationDetails *string `json:"business_registration_details"`
	StorageCapacitySqft         *int    `json:"storage_capacity_sqft"`
	AverageRating               float64 `json:"average_rating"`
	TotalReviews                int     `json:"total_reviews"`
	IsVerified                  bool    `json:"is_verified"`
}

// UpstreamSupplier is a wholesale source a hub buys from.
type UpstreamSupplier struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ContactPerson     *string   `json:"contact_person"`
	PhoneNumber       *string   `json:"phone_number"`
	Email             *string   `json:"email"`
	Address           *string   `json:"address"`
	AverageRatingByHub float64  `json:"average_rating_by_hub"`
	TotalReviewsByHub  int      `json:"total_reviews_by_hub"`
	CreatedAt         time.Time `json:"created_at"`
}

// VendorUpdate carries editable vendor profile fields.
type VendorUpdate struct {
	Name            string
	LocationPincode string
	LocationAddress *string
	TypeOfFood      *string
}

// SupplierUpdate carries editable supplier profile fields.
type SupplierUpdate struct {
	BusinessName                string
	ContactPerson               string
	PhoneNumber                 string
	Email                       *string
	LocationPincode             string
	LocationAddress             string
	BusinessRegistrationDetails *string
	StorageCapacitySqft         *int
}
