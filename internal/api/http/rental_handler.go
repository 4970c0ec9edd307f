package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/service"
)

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

type createRentalRequest struct {
	ListingID int64  `json:"listing"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.CreateRentalRequest(r.Context(), claims.UserID, req.ListingID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.GetRental(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.Approve(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.Decline(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type statusAuditRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *RentalHandler) UpdateStatusWithAudit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req statusAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.UpdateStatusWithAudit(r.Context(), claims.UserID, id, req.Status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type rentalMessageRequest struct {
	Message     string `json:"message"`
	EvidenceURL string `json:"evidenceUrl"`
}

func (h *RentalHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req rentalMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.AddMessage(r.Context(), claims.UserID, id, req.Message, req.EvidenceURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type paymentRequest struct {
	AmountCents int64      `json:"amount"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	PaidAt      *time.Time `json:"paidAt"`
}

func (h *RentalHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.AddPayment(r.Context(), claims.UserID, id, req.AmountCents, req.Method, req.Reference, req.PaidAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type rentalReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *RentalHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req rentalReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.AddReview(r.Context(), claims.UserID, id, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type disputeRequest struct {
	Reason      string `json:"reason"`
	EvidenceURL string `json:"evidenceUrl"`
}

func (h *RentalHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req disputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.RaiseDispute(r.Context(), claims.UserID, id, req.Reason, req.EvidenceURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type resolveDisputeRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

func (h *RentalHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req resolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("Invalid request body"))
		return
	}
	claims := claimsFrom(r.Context())
	rental, err := h.rentalService.ResolveDispute(r.Context(), claims.UserID, id, req.Status, req.Resolution)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListOpenDisputes(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	disputes, err := h.rentalService.ListOpenDisputes(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, disputes)
}

func (h *RentalHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	if claims.UserID != userID && !claims.IsAdmin {
		writeError(w, domain.Forbidden("You can only view your own rental history"))
		return
	}
	rentals, err := h.rentalService.GetHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// Export streams the audit projection in the requested format. All formats
// serialize the same record, so field values are identical across them.
func (h *RentalHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	claims := claimsFrom(r.Context())
	detail, err := h.rentalService.ExportAudit(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	rec := service.BuildAuditRecord(detail, time.Now())

	filename := fmt.Sprintf("rental-%d-audit", id)
	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		err = service.WriteJSON(w, rec)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		err = service.WriteCSV(w, rec)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		err = service.WritePDF(w, rec)
	default:
		writeError(w, domain.Invalid("Invalid export format"))
		return
	}
	if err != nil {
		writeError(w, err)
	}
}
