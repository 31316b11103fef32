package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	midtranswebhook "github.com/mocharil/savora-backend/internal/webhooks/midtrans"
	"github.com/mocharil/savora-backend/pkg/logger"
	"github.com/mocharil/savora-backend/pkg/midtrans"
)

type stubWebhookService struct {
	received *midtrans.Notification
	outcome  midtranswebhook.Outcome
	err      error
}

func (s *stubWebhookService) Reconcile(ctx context.Context, n midtrans.Notification) (midtranswebhook.Outcome, error) {
	s.received = &n
	return s.outcome, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestMidtransWebhookAcceptsExtraGatewayFields(t *testing.T) {
	svc := &stubWebhookService{outcome: midtranswebhook.OutcomeApplied}
	handler := MidtransWebhook(svc, testLogger())

	signature := midtrans.Signature("SV-20260115-0A1B2C", "200", "150000.00", "SB-Mid-server-test")
	body := fmt.Sprintf(`{
		"order_id": "SV-20260115-0A1B2C",
		"status_code": "200",
		"gross_amount": "150000.00",
		"transaction_status": "settlement",
		"transaction_id": "mid-tx-001",
		"payment_type": "qris",
		"signature_key": %q,
		"merchant_id": "G12345678",
		"currency": "IDR",
		"settlement_time": "2026-01-15 10:22:31"
	}`, signature)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rec.Code, rec.Body.String())
	}
	if svc.received == nil {
		t.Fatal("expected notification handed to the service")
	}
	if svc.received.OrderID != "SV-20260115-0A1B2C" {
		t.Fatalf("unexpected order id %s", svc.received.OrderID)
	}
	if svc.received.TransactionStatus != "settlement" {
		t.Fatalf("unexpected transaction status %s", svc.received.TransactionStatus)
	}
	if svc.received.SignatureKey != signature {
		t.Fatal("signature must pass through untouched")
	}

	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data["success"] {
		t.Fatalf("unexpected response body %s", rec.Body.String())
	}
}

func TestMidtransWebhookRejectsMalformedBody(t *testing.T) {
	svc := &stubWebhookService{}
	handler := MidtransWebhook(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", strings.NewReader("{not-json"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.received != nil {
		t.Fatal("malformed body must not reach the service")
	}
}
