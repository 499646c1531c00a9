package services

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"time"

	"github.com/signintech/gopdf"
)

// Common install locations of DejaVu Sans, tried when the configured font
// file does not exist. The certificate text is Cyrillic, so the font must
// carry Cyrillic glyphs.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
}

// Landscape A4 in points.
const (
	certPageW = 841.89
	certPageH = 595.28
)

// CertificateService renders course-completion certificates as one-page
// landscape PDFs. The layout is fixed; only the student name, course title,
// date and language vary.
type CertificateService struct {
	fontPath string
}

// NewCertificateService takes the path to a TTF font with Cyrillic
// coverage. The font is loaded per render because gopdf documents are
// single-use.
func NewCertificateService(fontPath string) *CertificateService {
	return &CertificateService{fontPath: fontPath}
}

// Render produces the certificate PDF bytes. lang is "ru" or "kk".
func (s *CertificateService) Render(studentName, courseTitle, completionDate, lang string) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: certPageW, H: certPageH}})
	pdf.AddPage()

	fontPath, err := s.resolveFont()
	if err != nil {
		return nil, err
	}
	if err := pdf.AddTTFFont("cert", fontPath); err != nil {
		return nil, fmt.Errorf("certificate font unavailable: %w", err)
	}

	university := "ВОСТОЧНО-КАЗАХСТАНСКИЙ УНИВЕРСИТЕТ ИМЕНИ САРСЕНА АМАНЖОЛОВА"
	intro := "Настоящий сертификат подтверждает, что"
	courseText := fmt.Sprintf("завершил(а) курс «%s» и освоил(а) все предусмотренные учебной программой материалы.", courseTitle)
	rector := "Председатель правления-ректор, профессор Төлеген М.Ә."
	if lang == "kk" {
		university = "СӘРСЕН АМАНЖОЛОВ АТЫНДАҒЫ ШЫҒЫС ҚАЗАҚСТАН УНИВЕРСИТЕТІ"
		intro = "Осы сертификат"
		courseText = fmt.Sprintf("«%s» курсын аяқтап, оқыту бағдарламасында қарастырылған барлық материалдарды меңгергенін растайды.", courseTitle)
		rector = "Басқарма төрағасы-ректор, профессор Төлеген М.Ә."
	}

	// Header
	pdf.SetTextColor(0x1E, 0x3A, 0x8A)
	if err := pdf.SetFont("cert", "", 16); err != nil {
		return nil, err
	}
	centerText(&pdf, university, 80)

	pdf.SetTextColor(0xDC, 0x26, 0x26)
	pdf.SetFont("cert", "", 36)
	centerText(&pdf, "СЕРТИФИКАТ", 140)

	// Body
	pdf.SetTextColor(0x37, 0x41, 0x51)
	pdf.SetFont("cert", "", 16)
	centerText(&pdf, intro, 200)

	pdf.SetTextColor(0x1E, 0x40, 0xAF)
	pdf.SetFont("cert", "", 28)
	centerText(&pdf, strings.ToUpper(studentName), 260)

	pdf.SetTextColor(0x37, 0x41, 0x51)
	pdf.SetFont("cert", "", 16)
	y := 320.0
	for _, line := range wrapText(courseText, 60) {
		centerText(&pdf, line, y)
		y += 30
	}

	pdf.SetTextColor(0x6B, 0x72, 0x80)
	pdf.SetFont("cert", "", 14)
	centerText(&pdf, completionDate, y+40)

	// Signature block
	pdf.SetTextColor(0x37, 0x41, 0x51)
	pdf.SetFont("cert", "", 12)
	centerText(&pdf, "_________________________", certPageH-120)
	centerText(&pdf, rector, certPageH-100)

	// Certificate number
	pdf.SetTextColor(0x9C, 0xA3, 0xAF)
	pdf.SetFont("cert", "", 10)
	number := certificateNumber(studentName)
	numW, _ := pdf.MeasureTextWidth(number)
	pdf.SetXY(certPageW-50-numW, certPageH-50)
	pdf.Cell(nil, number)

	// Border
	pdf.SetStrokeColor(0xE5, 0xE7, 0xEB)
	pdf.SetLineWidth(2)
	pdf.RectFromUpperLeftWithStyle(20, 20, certPageW-40, certPageH-40, "D")

	return pdf.GetBytesPdf(), nil
}

// resolveFont returns the configured font path when the file exists,
// otherwise the first present system font from systemFontPaths.
func (s *CertificateService) resolveFont() (string, error) {
	if _, err := os.Stat(s.fontPath); err == nil {
		return s.fontPath, nil
	}
	for _, p := range systemFontPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("certificate font not found at %s and no system fallback is installed", s.fontPath)
}

func centerText(pdf *gopdf.GoPdf, text string, y float64) {
	w, _ := pdf.MeasureTextWidth(text)
	pdf.SetXY((certPageW-w)/2, y)
	pdf.Cell(nil, text)
}

// wrapText splits text into lines of at most width characters, breaking on
// word boundaries.
func wrapText(text string, width int) []string {
	var lines []string
	var current string

	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len([]rune(candidate)) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func certificateNumber(studentName string) string {
	h := fnv.New32a()
	h.Write([]byte(studentName))
	return fmt.Sprintf("№ %s-%04d", time.Now().Format("20060102"), h.Sum32()%10000)
}
