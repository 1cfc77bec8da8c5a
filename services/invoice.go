package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

// RenderInvoice writes a one page PDF invoice for a booking whose lines have
// been resolved.
func RenderInvoice(w io.Writer, booking *models.Booking) error {
	if booking == nil {
		return ValidationError("booking is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Invoice booking #%d", booking.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Catering Invoice #%d", booking.ID)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Customer", booking.FullName},
		{"Email", booking.Email},
		{"Event", string(booking.EventType)},
		{"Date", booking.EventDate.Format("02 Jan 2006")},
		{"Venue", booking.Venue},
		{"Guests", strconv.Itoa(booking.Guests)},
		{"Status", string(booking.Status)},
	}
	for _, d := range details {
		pdf.CellFormat(35, 7, d[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(d[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{80, 35, 25, 40}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Menu", "Unit price", "Guests", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	subtotals := LineTotals(booking.Menus, booking.Guests)
	for i, m := range booking.Menus {
		pdf.CellFormat(widths[0], 7, tr(m.Title), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, utils.FormatCurrency(m.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.Itoa(booking.Guests), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatCurrency(subtotals[i]), "1", 1, "R", false, 0, "")
	}
	if len(booking.Menus) == 0 {
		pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "No menu selected", "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 9, utils.FormatCurrency(booking.TotalPrice), "1", 1, "R", false, 0, "")

	if booking.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr("Notes: "+booking.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
