package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a meeting's minutes as an A4 PDF document.
func (g *Generator) Generate(meeting model.Meeting, siteName, chairperson string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Meeting Minutes", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Site: %s", safeValue(siteName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", formatDateTimePtr(meeting.ScheduledAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addTextBlock(pdf, g.fontName, "Chairperson", safeValue(chairperson))
	addTextBlock(pdf, g.fontName, "Attendees", safeValue(meeting.Attendees))
	addTextBlock(pdf, g.fontName, "Apologies", safeValue(meeting.Apologies))
	addTextBlock(pdf, g.fontName, "Agenda", safeValue(meeting.Agenda))
	if strings.TrimSpace(meeting.Introduction) != "" {
		addTextBlock(pdf, g.fontName, "Introduction", meeting.Introduction)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Items Discussed", "", 1, "L", false, 0, "")

	headers := []string{"#", "Issue Discussed", "Responsible", "Target", "Invoice", "Payment"}
	colWidths := []float64{8, 72, 40, 20, 20, 20}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for i, item := range meeting.Items {
		row := []string{
			fmt.Sprintf("%d", i+1),
			item.IssueDiscussed,
			staffNames(item.ResponsibleStaff),
			formatDatePtr(item.TargetDate),
			formatDatePtr(item.InvoiceDate),
			formatDatePtr(item.PaymentDate),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}
	if len(meeting.Items) == 0 {
		pdf.SetFont(g.fontName, "I", 10)
		pdf.CellFormat(0, 8, "No items recorded.", "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Chairperson: ______________________ /%s/", safeValue(chairperson)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addTextBlock(pdf *gofpdf.Fpdf, fontName, title, body string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(1)
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i == 0 {
			align = "C"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func staffNames(staff []model.Staff) string {
	if len(staff) == 0 {
		return "-"
	}
	names := make([]string, 0, len(staff))
	for _, member := range staff {
		names = append(names, strings.TrimSpace(member.Name+" "+member.Surname))
	}
	return strings.Join(names, ", ")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDatePtr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatDateTimePtr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
