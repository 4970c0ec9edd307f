package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"nkadime-backend/internal/domain"
)

// AuditRecord is the flat projection of a rental shared by every export
// format. All three writers serialize the exact same record, so a field
// present in one format is present in all of them.
type AuditRecord struct {
	RentalID      int64                  `json:"rentalId"`
	ListingTitle  string                 `json:"listingTitle"`
	OwnerName     string                 `json:"ownerName"`
	RenterName    string                 `json:"renterName"`
	Status        domain.RentalStatus    `json:"status"`
	StartDate     string                 `json:"startDate"`
	EndDate       string                 `json:"endDate"`
	Payment       *domain.Payment        `json:"payment,omitempty"`
	StatusHistory []domain.StatusChange  `json:"statusHistory"`
	Messages      []domain.RentalMessage `json:"messages"`
	Evidence      []domain.Evidence      `json:"evidence"`
	Reviews       []domain.RentalReview  `json:"reviews"`
	Dispute       *domain.Dispute        `json:"dispute,omitempty"`
	ExportedAt    string                 `json:"exportedAt"`
}

// BuildAuditRecord flattens a rental detail into the export projection.
func BuildAuditRecord(d *domain.RentalDetail, now time.Time) AuditRecord {
	return AuditRecord{
		RentalID:      d.ID,
		ListingTitle:  d.ListingTitle,
		OwnerName:     d.OwnerName,
		RenterName:    d.RenterName,
		Status:        d.Status,
		StartDate:     d.StartDate.Format(dateLayout),
		EndDate:       d.EndDate.Format(dateLayout),
		Payment:       d.Payment,
		StatusHistory: d.StatusHistory,
		Messages:      d.Messages,
		Evidence:      d.Evidence,
		Reviews:       d.Reviews,
		Dispute:       d.Dispute,
		ExportedAt:    now.UTC().Format(time.RFC3339),
	}
}

// WriteJSON writes the audit record as indented JSON.
func WriteJSON(w io.Writer, rec AuditRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

var csvHeader = []string{
	"rentalId", "listingTitle", "ownerName", "renterName", "status",
	"startDate", "endDate", "payment", "statusHistory", "messages",
	"evidence", "reviews", "dispute", "exportedAt",
}

// WriteCSV writes a header row plus one data row. Sub-sequences are embedded
// as JSON strings so no history entry is lost to the tabular shape.
func WriteCSV(w io.Writer, rec AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	row := []string{
		strconv.FormatInt(rec.RentalID, 10),
		rec.ListingTitle,
		rec.OwnerName,
		rec.RenterName,
		string(rec.Status),
		rec.StartDate,
		rec.EndDate,
		jsonCell(rec.Payment),
		jsonCell(rec.StatusHistory),
		jsonCell(rec.Messages),
		jsonCell(rec.Evidence),
		jsonCell(rec.Reviews),
		jsonCell(rec.Dispute),
		rec.ExportedAt,
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func jsonCell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// WritePDF renders the audit record as a printable report carrying the same
// fields as the JSON and CSV exports.
func WritePDF(w io.Writer, rec AuditRecord) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Rental Audit Report #%d", rec.RentalID))
	pdf.Ln(12)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, value, "", "L", false)
	}
	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
	}

	line("Listing", rec.ListingTitle)
	line("Owner", rec.OwnerName)
	line("Renter", rec.RenterName)
	line("Status", string(rec.Status))
	line("Period", fmt.Sprintf("%s to %s", rec.StartDate, rec.EndDate))
	line("Exported", rec.ExportedAt)

	if rec.Payment != nil {
		section("Payment")
		line("Amount", fmt.Sprintf("%.2f", float64(rec.Payment.AmountCents)/100))
		line("Method", rec.Payment.Method)
		line("Reference", rec.Payment.Reference)
		line("Paid At", rec.Payment.PaidAt.Format(time.RFC3339))
	}

	section("Status History")
	for _, h := range rec.StatusHistory {
		entry := fmt.Sprintf("%s  %s  by user %d", h.ChangedAt.Format(time.RFC3339), h.Status, h.ChangedBy)
		if h.Note != "" {
			entry += "  (" + h.Note + ")"
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, entry, "", "L", false)
	}

	if len(rec.Messages) > 0 {
		section("Messages")
		for _, m := range rec.Messages {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s  user %d: %s", m.SentAt.Format(time.RFC3339), m.FromUser, m.Message), "", "L", false)
		}
	}

	if len(rec.Evidence) > 0 {
		section("Evidence")
		for _, e := range rec.Evidence {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s  user %d: %s", e.UploadedAt.Format(time.RFC3339), e.UploadedBy, e.URL), "", "L", false)
		}
	}

	if len(rec.Reviews) > 0 {
		section("Reviews")
		for _, rv := range rec.Reviews {
			entry := fmt.Sprintf("user %d rated %d/5", rv.ReviewerID, rv.Rating)
			if rv.Comment != "" {
				entry += ": " + rv.Comment
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, entry, "", "L", false)
		}
	}

	if rec.Dispute != nil {
		section("Dispute")
		line("Raised By", strconv.FormatInt(rec.Dispute.RaisedBy, 10))
		line("Reason", rec.Dispute.Reason)
		line("Status", string(rec.Dispute.Status))
		if rec.Dispute.Resolution != "" {
			line("Resolution", rec.Dispute.Resolution)
		}
	}

	return pdf.Output(w)
}
