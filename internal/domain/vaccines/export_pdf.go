package vaccines

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// RecordDocument son los datos del PDF de carnet de vacunación.
type RecordDocument struct {
	BabyName    string
	DateOfBirth time.Time
	Gender      string
	GeneratedAt time.Time
	Report      Report
	// StatusURL se codifica como QR. Vacío = sin QR.
	StatusURL string
}

var stateLabels = map[State]string{
	StateNotYetDue:    "Not yet due",
	StateDueNow:       "Due now",
	StateOverdue:      "Overdue",
	StateScheduled:    "Scheduled",
	StateAdministered: "Administered",
}

// columnas: vacuna, ventana, estado, fecha, hospital, lugar (A4 vertical, mm)
var recordColumns = []struct {
	title string
	width float64
}{
	{"Vaccine", 52},
	{"Window", 38},
	{"Status", 24},
	{"Date", 22},
	{"Hospital", 27},
	{"Location", 27},
}

// WriteRecordPDF genera el carnet con layout fijo y lo escribe en w.
func WriteRecordPDF(w io.Writer, doc RecordDocument) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Vaccination record", true)
	pdf.SetAuthor("baby-health-tracker", true)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - page %d", doc.GeneratedAt.Format("2006-01-02 15:04 MST"), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// encabezado
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 10, "Vaccination record", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Name: "+doc.BabyName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date of birth: "+doc.DateOfBirth.Format("2006-01-02"), "", 1, "L", false, 0, "")
	if g := strings.TrimSpace(doc.Gender); g != "" {
		pdf.CellFormat(0, 6, tr("Gender: "+g), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Status as of: "+doc.Report.Today.Format("2006-01-02"), "", 1, "L", false, 0, "")

	if doc.StatusURL != "" {
		png, err := qrcode.Encode(doc.StatusURL, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("encode qr: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("status-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("status-qr", 165, 10, 34, 34, false, opts, 0, doc.StatusURL)
	}

	pdf.Ln(4)
	writeSummary(pdf, doc.Report)
	pdf.Ln(4)

	// tabla
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 243, 255)
	for _, c := range recordColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, it := range doc.Report.Items {
		var dateStr, hospital, location string
		if it.Schedule != nil {
			dateStr = it.Schedule.Date.Format("2006-01-02")
			if it.Schedule.AdministeredAt != nil && it.State == StateAdministered {
				dateStr = it.Schedule.AdministeredAt.Format("2006-01-02")
			}
			hospital = it.Schedule.Hospital
			location = it.Schedule.Location
		}

		if it.State == StateOverdue {
			pdf.SetTextColor(180, 20, 20)
		} else {
			pdf.SetTextColor(30, 30, 30)
		}

		cells := []string{
			tr(it.Vaccine.Name),
			windowLabel(it.WindowStart, it.WindowEnd),
			stateLabels[it.State],
			dateStr,
			tr(clip(pdf, hospital, recordColumns[4].width)),
			tr(clip(pdf, location, recordColumns[5].width)),
		}
		for i, c := range recordColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(30, 30, 30)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func writeSummary(pdf *fpdf.Fpdf, rep Report) {
	parts := make([]string, 0, len(States))
	for _, st := range States {
		parts = append(parts, fmt.Sprintf("%s: %d", stateLabels[st], rep.Counts[st]))
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, strings.Join(parts, "   "), "", 1, "L", false, 0, "")
}

// clip recorta s para que entre en width mm con el font actual.
// windowLabel repite el año del fin sólo si cambia.
func windowLabel(start, end time.Time) string {
	if start.Year() != end.Year() {
		return start.Format("2006-01-02") + " - " + end.Format("2006-01-02")
	}
	return start.Format("2006-01-02") + " - " + end.Format("01-02")
}

func clip(pdf *fpdf.Fpdf, s string, width float64) string {
	s = strings.TrimSpace(s)
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
