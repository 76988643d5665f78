package events

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"go-donorsync/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookApp(t *testing.T, repo EventRepository, reconciler *fakeReconciler) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		PlatformWebhookSecret:   "platform-secret",
		PaymentWebhookSecret:    "whsec_test",
		PaymentWebhookTolerance: 5 * time.Minute,
	}

	service := newTestEventService(repo, reconciler, &fakeTxFetcher{})
	controller := NewEventController(service, cfg)

	app := fiber.New()
	app.Post("/webhooks/platform", controller.PlatformWebhook)
	app.Post("/webhooks/payments", controller.PaymentsWebhook)
	return app
}

func TestPlatformWebhookRejectsBadSecret(t *testing.T) {
	repo := newFakeEventRepo()
	app := newWebhookApp(t, repo, &fakeReconciler{})

	req := httptest.NewRequest("POST", "/webhooks/platform",
		bytes.NewReader([]byte(`{"event":"transaction.succeeded","data":{"id":"tx_1"}}`)))
	req.Header.Set("X-Webhook-Secret", "wrong")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "invalid webhook secret", string(body))
	assert.Empty(t, repo.byKey, "rejected events must not be persisted")
}

func TestPlatformWebhookAccepts(t *testing.T) {
	repo := newFakeEventRepo()
	rec := &fakeReconciler{}
	app := newWebhookApp(t, repo, rec)

	req := httptest.NewRequest("POST", "/webhooks/platform",
		bytes.NewReader([]byte(`{"event":"transaction.succeeded","data":{"id":"tx_1","amount":25}}`)))
	req.Header.Set("X-Webhook-Secret", "platform-secret")
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, rec.transactions)
	assert.Contains(t, repo.byKey, "platform:transaction.succeeded:tx_1")
}

func TestPlatformWebhookAcknowledgesMalformedPayload(t *testing.T) {
	repo := newFakeEventRepo()
	app := newWebhookApp(t, repo, &fakeReconciler{})

	req := httptest.NewRequest("POST", "/webhooks/platform", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("X-Webhook-Secret", "platform-secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "authenticated but unparseable payloads are acknowledged")
	assert.Len(t, repo.byKey, 1)
}

func TestPaymentsWebhookSignature(t *testing.T) {
	repo := newFakeEventRepo()
	rec := &fakeReconciler{}
	app := newWebhookApp(t, repo, rec)

	payload := []byte(`{"id":"evt_1","type":"charge.succeeded","data":{"object":{"metadata":{"transaction_id":"tx_1"}}}}`)

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhooks/payments", bytes.NewReader(payload))
		req.Header.Set("Webhook-Signature", signPayment(payload, "whsec_test", time.Now()))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, rec.transactions)
	})

	t.Run("BadSignature", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhooks/payments", bytes.NewReader(payload))
		req.Header.Set("Webhook-Signature", signPayment(payload, "whsec_wrong", time.Now()))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhooks/payments", bytes.NewReader(payload))
		req.Header.Set("Webhook-Signature", signPayment(payload, "whsec_test", time.Now().Add(-time.Hour)))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhooks/payments", bytes.NewReader(payload))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
