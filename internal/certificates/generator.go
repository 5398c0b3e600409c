// Package certificates renders participation certificates as PDF documents.
package certificates

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Data carries everything printed onto a certificate.
type Data struct {
	RecipientName string
	EventTitle    string
	EventDate     string
	ClubName      string
	IssuedAt      time.Time
}

// Generator renders certificates and optionally persists them under OutputDir.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// Render writes the certificate PDF to w.
func (g *Generator) Render(w io.Writer, data Data) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate of Participation", false)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 64, 124)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(11, 11, pageW-22, pageH-22, "D")

	pdf.SetY(40)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(30, 64, 124)
	pdf.CellFormat(0, 14, "Certificate of Participation", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, data.RecipientName, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "participated in", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, data.EventTitle, "", 1, "C", false, 0, "")

	detail := fmt.Sprintf("held on %s", data.EventDate)
	if data.ClubName != "" {
		detail = fmt.Sprintf("organised by %s, %s", data.ClubName, detail)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, detail, "", 1, "C", false, 0, "")

	pdf.SetY(pageH - 36)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Issued on "+data.IssuedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// RenderFile renders the certificate into OutputDir and returns the file path.
func (g *Generator) RenderFile(data Data) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create certificates dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.pdf", slugify(data.EventTitle), slugify(data.RecipientName))
	path := filepath.Join(g.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create certificate file: %w", err)
	}
	defer f.Close()

	if err := g.Render(f, data); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("flush certificate file: %w", err)
	}
	return path, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	out := b.String()
	if out == "" {
		out = "certificate"
	}
	return out
}
