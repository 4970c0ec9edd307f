package http

import (
	"encoding/json"
	"net/http"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/service"
)

// CommunityHandler groups the smaller marketplace surfaces: listing reviews,
// pre-rental listing messages and favorites.
type CommunityHandler struct {
	reviewService  service.ReviewService
	messageService service.ListingMessageService
	favService     service.FavoriteService
}

func NewCommunityHandler(
	reviewService service.ReviewService,
	messageService service.ListingMessageService,
	favService service.FavoriteService,
) *CommunityHandler {
	return &CommunityHandler{
		reviewService:  reviewService,
		messageService: messageService,
		favService:     favService,
	}
}

type listingReviewRequest struct {
	ListingID int64  `json:"listing"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *CommunityHandler) AddListingReview(w http.ResponseWriter, r *http.Request) {
	var req listingReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	review := &domain.Review{
		ListingID:  req.ListingID,
		ReviewerID: claims.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.reviewService.AddReview(r.Context(), review); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *CommunityHandler) ListListingReviews(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "listingId")
	if err != nil {
		writeError(w, err)
		return
	}
	reviews, err := h.reviewService.ListByListing(r.Context(), listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type listingMessageRequest struct {
	ListingID int64  `json:"listing"`
	Message   string `json:"message"`
}

func (h *CommunityHandler) SendListingMessage(w http.ResponseWriter, r *http.Request) {
	var req listingMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	msg, err := h.messageService.SendMessage(r.Context(), claims.UserID, req.ListingID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *CommunityHandler) ListListingMessages(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "listingId")
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	msgs, err := h.messageService.ListByListing(r.Context(), claims.UserID, listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type favoriteRequest struct {
	ListingID int64 `json:"listing"`
}

func (h *CommunityHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	fav, err := h.favService.AddFavorite(r.Context(), claims.UserID, req.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *CommunityHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	favs, err := h.favService.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}
