package idcard

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Physical card size (CR80, landscape) in millimeters.
const (
	cardWidthMM  = 85.6
	cardHeightMM = 54
)

// Renderer lays out the card document and serializes it to a PDF under its
// output directory.
type Renderer struct {
	outDir string
}

func NewRenderer(outDir string) *Renderer {
	return &Renderer{outDir: outDir}
}

// Render draws the card for sub and writes uploads/generated/<ts>-<id>.pdf.
// The document is a single landscape page carrying the front block (name, ID
// number, position, category, portrait) on the left and the rear block
// (emergency contact, signatory, signature, company address, barcode) on the
// right. The PDF is written to a temporary path and renamed on success so a
// failed render never leaves a readable partial file.
func (r *Renderer) Render(sub Submission, photoFile, signatureFile string, barcodePNG []byte) (string, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidthMM, Ht: cardHeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r.drawFront(pdf, sub, photoFile)
	r.drawRear(pdf, sub, signatureFile, barcodePNG)

	if pdf.Err() {
		return "", fmt.Errorf("%w: %v", ErrRenderWriteFailed, pdf.Error())
	}

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderWriteFailed, err)
	}

	name := fmt.Sprintf("%d-%s.pdf", time.Now().Unix(), sub.IDNumber)
	path := filepath.Join(r.outDir, name)
	tmp := path + ".tmp"

	if err := pdf.OutputFileAndClose(tmp); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrRenderWriteFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrRenderWriteFailed, err)
	}

	// Structural integrity check on the finished artifact. A file that does
	// not validate is removed rather than served.
	if err := api.ValidateFile(path, nil); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: artifact failed validation: %v", ErrRenderWriteFailed, err)
	}

	return path, nil
}

func (r *Renderer) drawFront(pdf *fpdf.Fpdf, sub Submission, photoFile string) {
	pdf.SetFillColor(21, 67, 96)
	pdf.Rect(0, 0, cardWidthMM, 8, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetXY(2, 2.5)
	pdf.CellFormat(40, 3, "IDENTIFICATION CARD", "", 0, "L", false, 0, "")

	if photoFile != "" {
		pdf.ImageOptions(photoFile, 3, 12, 16, 20, false, imageOptionsFor(photoFile), 0, "")
	}

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(22, 13)
	pdf.CellFormat(24, 4, sub.FullName(), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(22, 18)
	pdf.CellFormat(24, 3.5, "ID No: "+sub.IDNumber, "", 0, "L", false, 0, "")
	pdf.SetXY(22, 22)
	pdf.CellFormat(24, 3.5, sub.Position, "", 0, "L", false, 0, "")
	pdf.SetXY(22, 26)
	pdf.CellFormat(24, 3.5, sub.Category, "", 0, "L", false, 0, "")
}

func (r *Renderer) drawRear(pdf *fpdf.Fpdf, sub Submission, signatureFile string, barcodePNG []byte) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(47, 10, 47, cardHeightMM-4)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetXY(49, 11)
	pdf.CellFormat(34, 3, "IN CASE OF EMERGENCY", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetXY(49, 14.5)
	pdf.CellFormat(34, 3, sub.EmergencyContactName+"  "+sub.EmergencyContactNumber, "", 0, "L", false, 0, "")

	if signatureFile != "" {
		pdf.ImageOptions(signatureFile, 49, 19, 14, 6, false, imageOptionsFor(signatureFile), 0, "")
	}
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetXY(49, 26)
	pdf.CellFormat(34, 3, sub.SignatoryName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetXY(49, 29)
	pdf.CellFormat(34, 3, sub.SignatoryPosition, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 5)
	pdf.SetXY(49, 33.5)
	pdf.MultiCell(34, 2.5, sub.CompanyAddress, "", "L", false)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("barcode-"+sub.IDNumber, opts, bytes.NewReader(barcodePNG))
	pdf.ImageOptions("barcode-"+sub.IDNumber, 49, 42, 34, 9, false, opts, 0, "")
}

func imageOptionsFor(path string) fpdf.ImageOptions {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return fpdf.ImageOptions{ImageType: ext}
}
