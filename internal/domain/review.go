package domain

import "time"

// Review is the listing-scoped review entity, distinct from the per-rental
// reviews embedded in the rental aggregate.
type Review struct {
	ID         int64     `json:"id"`
	ListingID  int64     `json:"listing"`
	ReviewerID int64     `json:"reviewer"`
	Reviewer   *User     `json:"reviewerDetail,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedOn  time.Time `json:"createdOn"`
}
