package domain

import "time"

type Listing struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	PriceCents  int64     `json:"price"`
	PriceUnit   string    `json:"priceUnit"`
	Location    string    `json:"location"`
	Available   bool      `json:"available"`
	CreatedOn   time.Time `json:"createdOn"`
}

// ListingFilter narrows Search results. Zero values mean "no constraint";
// Available is a tri-state pointer because false is a meaningful filter.
type ListingFilter struct {
	Category  string
	Location  string
	MinPrice  int64
	MaxPrice  int64
	Available *bool
}

type ListingMessage struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing"`
	FromUser  int64     `json:"fromUser"`
	ToUser    int64     `json:"toUser"`
	Message   string    `json:"message"`
	CreatedOn time.Time `json:"createdOn"`
}

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	ListingID int64     `json:"listing"`
	Listing   *Listing  `json:"listingDetail,omitempty"`
	CreatedOn time.Time `json:"createdOn"`
}
