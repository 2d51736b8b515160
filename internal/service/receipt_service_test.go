package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/pkg/export"
	"github.com/noah-isme/lms-edge-api/pkg/storage"
)

func newReceiptFixture(t *testing.T) *ReceiptService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewReceiptService(export.NewPDFExporter(), store, signer, nil)
}

func receiptSession() models.CheckoutSession {
	return models.CheckoutSession{
		ID:        "sess-1",
		UserID:    "user-1",
		Kind:      models.CheckoutEnrollment,
		Amount:    250,
		Currency:  "USD",
		State:     models.CheckoutSuccess,
		CreatedAt: time.Now().UTC(),
	}
}

func TestReceiptRenderAndDownload(t *testing.T) {
	svc := newReceiptFixture(t)

	path, err := svc.Render(ReceiptPayload{
		Session: receiptSession(),
		Lines: []models.CartItem{
			{CourseName: "Intro to Go", AccessType: models.AccessIndividual, Quantity: 2, CoursePrice: 100},
			{CourseName: "Advanced Go", AccessType: models.AccessIndividual, Quantity: 1, CoursePrice: 50},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1.pdf", path)

	url, err := svc.DownloadURL("user-1", "sess-1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/receipts/"))

	token := strings.TrimPrefix(url, "/receipts/")
	file, err := svc.OpenByToken(token)
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestReceiptOpenRejectsBadToken(t *testing.T) {
	svc := newReceiptFixture(t)

	_, err := svc.OpenByToken("not-a-real-token")
	require.Error(t, err)
}

func TestReceiptDownloadURLBeforeRender(t *testing.T) {
	svc := newReceiptFixture(t)

	url, err := svc.DownloadURL("user-1", "sess-2")
	require.NoError(t, err)

	// Link is valid immediately; the file simply is not there yet.
	token := strings.TrimPrefix(url, "/receipts/")
	_, err = svc.OpenByToken(token)
	require.Error(t, err)
}
