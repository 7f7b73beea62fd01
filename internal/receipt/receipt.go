// Package receipt формирует PDF-квитанцию по созданному бронированию.
package receipt

import (
	"bytes"
	"fmt"

	"tourbook/internal/model"
	"tourbook/internal/pricing"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Generate создает одностраничную квитанцию с QR-кодом номера бронирования.
func Generate(b model.Booking, tour model.Tour) ([]byte, error) {
	qr, err := qrcode.Encode(b.ID.String(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать QR-код: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "Tour Booking Receipt")
	pdf.Ln(16)

	unit := 0.0
	if b.NumberOfPeople > 0 {
		unit = b.TotalCost / float64(b.NumberOfPeople)
	}
	date := "-"
	if !tour.Date.IsZero() {
		date = tour.Date.Format("02 Jan 2006")
	}
	destination := tour.DestinationName()
	if destination == "" {
		destination = "Unknown location"
	}

	// Встроенные шрифты не содержат знака рупии, поэтому в PDF валюта указывается кодом.
	lines := [][2]string{
		{"Booking", b.ID.String()},
		{"Tour", tour.Name},
		{"Destination", destination},
		{"Date", date},
		{"Group leader", b.LeaderName},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"People", fmt.Sprintf("%d", b.NumberOfPeople)},
		{"Price per person", "INR " + pricing.FormatAmount(unit)},
		{"Total", "INR " + pricing.FormatAmount(b.TotalCost)},
		{"Status", b.Status},
		{"Created", b.CreatedAt.Format("2006-01-02 15:04 MST")},
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, l := range lines {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, l[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr(l[1]), "", 1, "L", false, 0, "")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("не удалось сформировать PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName возвращает имя файла квитанции.
func FileName(b model.Booking) string {
	return fmt.Sprintf("booking_%s.pdf", b.ID)
}
