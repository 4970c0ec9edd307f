package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/pricing"
	"nkadime-backend/internal/service"
)

type ListingHandler struct {
	listingService service.ListingService
}

func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

type createListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	PriceCents  int64    `json:"price"`
	PriceUnit   string   `json:"priceUnit"`
	Location    string   `json:"location"`
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	listing := &domain.Listing{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Images:      req.Images,
		PriceCents:  req.PriceCents,
		PriceUnit:   req.PriceUnit,
		Location:    req.Location,
	}
	if err := h.listingService.CreateListing(r.Context(), listing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listingService.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Quote estimates the rental cost for a date range at the listing's rate.
func (h *ListingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, domain.Invalid("Invalid start date"))
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, domain.Invalid("Invalid end date"))
		return
	}

	listing, err := h.listingService.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	quote, err := pricing.ForListing(listing, start, end)
	if err != nil {
		writeError(w, domain.Invalid(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListingFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
	}
	if v := q.Get("minPrice"); v != "" {
		filter.MinPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := q.Get("maxPrice"); v != "" {
		filter.MaxPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := q.Get("available"); v != "" {
		avail := v == "true"
		filter.Available = &avail
	}
	listings, err := h.listingService.SearchListings(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}
