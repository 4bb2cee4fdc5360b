package report

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/signintech/gopdf"

	"donto-bot/internal/submission"
)

type WhatsAppClient interface {
	SendDocument(to string, fileData []byte, fileName string) error
}

// Service renders a PDF case sheet for an assigned submission and sends it
// to the doctor as a document message.
type Service struct {
	waClient WhatsAppClient
}

func NewService(wa WhatsAppClient) *Service {
	return &Service{waClient: wa}
}

func (s *Service) SendCaseSheet(ctx context.Context, sub submission.Submission) error {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// Try multiple common font paths (Alpine and Debian base images)
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return err
	}

	pdf.Cell(nil, "Case Sheet - Donto Dental Clinic")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return err
	}
	pdf.Cell(nil, fmt.Sprintf("Generated: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Case ID: %s", sub.ID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Patient: %s", sub.PatientName))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Appointment: %s", sub.Appointment))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Private patient: %v", sub.IsPrivate))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Specialists: %s", sub.Specialists))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Procedures: %s", sub.Procedures))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return err
	}
	pdf.Cell(nil, "Medical history:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return err
	}
	lines, _ := pdf.SplitText(sub.Medical, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fileName := fmt.Sprintf("case_%s.pdf", sub.ID)
	if err := s.waClient.SendDocument(sub.DoctorAddress, buf.Bytes(), fileName); err != nil {
		return err
	}
	log.Printf("Case sheet %s sent to %s", fileName, sub.DoctorAddress)
	return nil
}
