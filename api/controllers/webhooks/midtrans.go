package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mocharil/savora-backend/api/responses"
	midtranswebhook "github.com/mocharil/savora-backend/internal/webhooks/midtrans"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/logger"
	"github.com/mocharil/savora-backend/pkg/midtrans"
)

type MidtransWebhookService interface {
	Reconcile(ctx context.Context, n midtrans.Notification) (midtranswebhook.Outcome, error)
}

// MidtransWebhook handles payment notifications from the gateway. A 2xx
// stops gateway retries, so only verification and lookup failures return
// an error status.
func MidtransWebhook(svc MidtransWebhookService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		// Gateway payloads carry fields beyond the ones we model, so the
		// strict decoder used for admin bodies does not apply here.
		var notification midtrans.Notification
		if err := json.Unmarshal(payload, &notification); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification payload"))
			return
		}

		outcome, err := svc.Reconcile(ctx, notification)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithOrderNumber(ctx, notification.OrderID)
		ctx = logg.WithFields(ctx, map[string]any{
			"outcome":            string(outcome),
			"transaction_status": notification.TransactionStatus,
		})
		logg.Info(ctx, "webhook.reconciled")
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
