package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending    RentalStatus = "pending"
	RentalStatusApproved   RentalStatus = "approved"
	RentalStatusDeclined   RentalStatus = "declined"
	RentalStatusPaid       RentalStatus = "paid"
	RentalStatusActive     RentalStatus = "active"
	RentalStatusInProgress RentalStatus = "in-progress"
	RentalStatusCompleted  RentalStatus = "completed"
	RentalStatusCancelled  RentalStatus = "cancelled"
	RentalStatusDisputed   RentalStatus = "disputed"
)

// validTransitions encodes the full lifecycle graph. Terminal statuses map to
// nil. Both ends of disputed belong to the dispute flow: ordinary transitions
// may neither enter nor leave it.
var validTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:    {RentalStatusApproved, RentalStatusDeclined},
	RentalStatusApproved:   {RentalStatusActive, RentalStatusPaid, RentalStatusInProgress, RentalStatusCancelled},
	RentalStatusPaid:       {RentalStatusCompleted, RentalStatusDisputed, RentalStatusCancelled},
	RentalStatusActive:     {RentalStatusCompleted, RentalStatusDisputed, RentalStatusCancelled},
	RentalStatusInProgress: {RentalStatusCompleted, RentalStatusDisputed, RentalStatusCancelled},
	RentalStatusDisputed:   {RentalStatusCompleted, RentalStatusCancelled},
	RentalStatusCompleted:  nil,
	RentalStatusDeclined:   nil,
	RentalStatusCancelled:  nil,
}

// Valid reports whether s is a member of the status enumeration.
func (s RentalStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Terminal reports whether no further transitions exist from s.
func (s RentalStatus) Terminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle graph.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, n := range validTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusRejected DisputeStatus = "rejected"
)

type StatusChange struct {
	ID        int64        `json:"id"`
	Status    RentalStatus `json:"status"`
	ChangedBy int64        `json:"changedBy"`
	Note      string       `json:"note,omitempty"`
	ChangedAt time.Time    `json:"changedAt"`
}

type Payment struct {
	AmountCents int64     `json:"amount"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference"`
	PaidAt      time.Time `json:"paidAt"`
}

type RentalMessage struct {
	ID       int64     `json:"id"`
	FromUser int64     `json:"from"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sentAt"`
}

type Evidence struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	UploadedBy int64     `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type RentalReview struct {
	ID         int64     `json:"id"`
	ReviewerID int64     `json:"by"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedOn  time.Time `json:"createdOn"`
}

type Dispute struct {
	ID          int64         `json:"id"`
	RentalID    int64         `json:"rental"`
	RaisedBy    int64         `json:"raisedBy"`
	Reason      string        `json:"reason"`
	EvidenceURL string        `json:"evidenceUrl,omitempty"`
	Status      DisputeStatus `json:"status"`
	Resolution  string        `json:"resolution,omitempty"`
	ResolvedBy  *int64        `json:"resolvedBy,omitempty"`
	RaisedAt    time.Time     `json:"raisedAt"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
}

// Rental is the aggregate tracking one rental transaction. The child slices
// are append-only and ordered by insertion.
type Rental struct {
	ID            int64           `json:"id"`
	ListingID     int64           `json:"listing"`
	OwnerID       int64           `json:"owner"`
	RenterID      int64           `json:"renter"`
	Status        RentalStatus    `json:"status"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Payment       *Payment        `json:"payment,omitempty"`
	StatusHistory []StatusChange  `json:"statusHistory"`
	Messages      []RentalMessage `json:"messages"`
	Evidence      []Evidence      `json:"evidence"`
	Reviews       []RentalReview  `json:"reviews"`
	Dispute       *Dispute        `json:"dispute,omitempty"`
	CreatedOn     time.Time       `json:"createdOn"`
	UpdatedOn     time.Time       `json:"updatedOn"`
}

// RentalDetail is a Rental with display names resolved for history views and
// audit exports.
type RentalDetail struct {
	Rental
	ListingTitle string `json:"listingTitle"`
	OwnerName    string `json:"ownerName"`
	RenterName   string `json:"renterName"`
}

// HasOpenDispute reports whether the rental carries an unresolved dispute.
func (r *Rental) HasOpenDispute() bool {
	return r.Dispute != nil && r.Dispute.Status == DisputeStatusOpen
}

// IsParty reports whether userID is the rental's owner or renter.
func (r *Rental) IsParty(userID int64) bool {
	return r.OwnerID == userID || r.RenterID == userID
}
