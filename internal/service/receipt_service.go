package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/export"
	"github.com/noah-isme/lms-edge-api/pkg/jobs"
	"github.com/noah-isme/lms-edge-api/pkg/storage"
)

// JobTypeReceiptRender labels queued receipt renders.
const JobTypeReceiptRender = "receipt_render"

// ReceiptPayload is the queued input for a receipt render. Lines are empty
// for subscription purchases; PlanTitle is empty for cart purchases.
type ReceiptPayload struct {
	Session   models.CheckoutSession
	Lines     []models.CartItem
	PlanTitle string
}

type receiptFileStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// ReceiptService renders order receipts as PDFs and issues signed download
// links for them. Rendering runs on the background queue; the download link
// is valid before the file lands because the token only binds the path.
type ReceiptService struct {
	pdf    *export.PDFExporter
	store  receiptFileStore
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewReceiptService constructs ReceiptService.
func NewReceiptService(pdf *export.PDFExporter, store receiptFileStore, signer *storage.SignedURLSigner, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{pdf: pdf, store: store, signer: signer, logger: logger}
}

// FileName derives the stored receipt path for a checkout session.
func (s *ReceiptService) FileName(sessionID string) string {
	return sessionID + ".pdf"
}

// DownloadURL issues a signed relative URL for a session's receipt.
func (s *ReceiptService) DownloadURL(ownerID, sessionID string) (string, error) {
	token, _, err := s.signer.Generate(ownerID, s.FileName(sessionID))
	if err != nil {
		return "", fmt.Errorf("sign receipt url: %w", err)
	}
	return "/receipts/" + token, nil
}

// OpenByToken validates a signed token and opens the receipt it references.
func (s *ReceiptService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid receipt link")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "receipt not available yet")
	}
	return file, nil
}

// Render builds the receipt PDF for a payload and writes it to storage,
// returning the stored path.
func (s *ReceiptService) Render(payload ReceiptPayload) (string, error) {
	data := export.Dataset{
		Headers: []string{"Item", "Access", "Qty", "Unit Price", "Line Total"},
	}

	if payload.PlanTitle != "" {
		data.Rows = append(data.Rows, map[string]string{
			"Item":       payload.PlanTitle,
			"Access":     "subscription",
			"Qty":        "1",
			"Unit Price": formatAmount(payload.Session.Amount),
			"Line Total": formatAmount(payload.Session.Amount),
		})
	}
	for _, line := range payload.Lines {
		data.Rows = append(data.Rows, map[string]string{
			"Item":       line.CourseName,
			"Access":     string(line.AccessType),
			"Qty":        strconv.Itoa(line.Quantity),
			"Unit Price": formatAmount(line.CoursePrice),
			"Line Total": formatAmount(line.CoursePrice * float64(line.Quantity)),
		})
	}

	data.Footer = []string{
		fmt.Sprintf("Total: %s %s", formatAmount(payload.Session.Amount), payload.Session.Currency),
		"Order " + payload.Session.ID,
		payload.Session.CreatedAt.Format(time.RFC1123),
	}

	rendered, err := s.pdf.Render(data, "Order Receipt")
	if err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return s.store.Save(s.FileName(payload.Session.ID), rendered)
}

// RenderHandler returns the queue handler for receipt render jobs.
func (s *ReceiptService) RenderHandler() jobs.Handler {
	return func(_ context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(ReceiptPayload)
		if !ok {
			s.logger.Error("receipt job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		path, err := s.Render(payload)
		if err != nil {
			return err
		}
		s.logger.Info("receipt rendered", zap.String("session_id", payload.Session.ID), zap.String("path", path))
		return nil
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
