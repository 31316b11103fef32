package midtranswebhook

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/internal/orders"
	"github.com/mocharil/savora-backend/internal/payments"
	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/metrics"
	"github.com/mocharil/savora-backend/pkg/midtrans"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Outcome classifies what a notification delivery did.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

type ServiceParams struct {
	OrdersRepo        orders.Repository
	PaymentsRepo      payments.Repository
	TransactionRunner txRunner
	Outbox            outboxPublisher
	Metrics           *metrics.LifecycleMetrics
	ServerKey         string
}

type Service struct {
	ordersRepo   orders.Repository
	paymentsRepo payments.Repository
	txRunner     txRunner
	outbox       outboxPublisher
	metrics      *metrics.LifecycleMetrics
	serverKey    string
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.PaymentsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox publisher required")
	}
	if strings.TrimSpace(params.ServerKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "midtrans server key required")
	}
	return &Service{
		ordersRepo:   params.OrdersRepo,
		paymentsRepo: params.PaymentsRepo,
		txRunner:     params.TransactionRunner,
		outbox:       params.Outbox,
		metrics:      params.Metrics,
		serverKey:    params.ServerKey,
	}, nil
}

// Reconcile applies a gateway payment notification. Deliveries are
// verified against the merchant key, matched to an order by its order
// number, and applied monotonically: once a payment is paid, later
// notifications can never move it backwards. Re-delivery of an already
// applied notification is a no-op.
func (s *Service) Reconcile(ctx context.Context, n midtrans.Notification) (Outcome, error) {
	if !midtrans.VerifySignature(n, s.serverKey) {
		s.metrics.ObserveWebhookOutcome("rejected")
		return OutcomeIgnored, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid signature")
	}

	mapped := midtrans.MapTransactionStatus(n.TransactionStatus)

	outcome := OutcomeDuplicate
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		order, err := ordersRepo.FindByOrderNumber(ctx, n.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		paymentsRepo := s.paymentsRepo.WithTx(tx)
		payment, err := paymentsRepo.FindByOrderID(ctx, order.ID)
		created := false
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
			}
			payment = &models.Payment{
				OrderID: order.ID,
				StoreID: order.StoreID,
				Status:  mapped,
				Method:  methodFromPaymentType(n.PaymentType),
				Amount:  order.Total,
			}
			created = true
		}

		// Gateway deliveries never demote a settled payment.
		if !created && payment.Status == enums.PaymentStatusPaid && mapped != enums.PaymentStatusPaid {
			return nil
		}
		if !created && payment.Status == mapped && order.PaymentStatus == mapped {
			return nil
		}

		payment.Status = mapped
		if method := methodFromPaymentType(n.PaymentType); method != "" {
			payment.Method = method
		}
		if n.TransactionID != "" {
			ref := n.TransactionID
			payment.GatewayReference = &ref
		}
		if mapped == enums.PaymentStatusPaid && payment.PaidAt == nil {
			now := time.Now()
			payment.PaidAt = &now
		}

		if created {
			if err := paymentsRepo.Create(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
			}
		} else {
			if err := paymentsRepo.Update(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
		}

		if err := ordersRepo.UpdatePaymentStatus(ctx, order.ID, mapped); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
		}

		if err := s.applyOrderSideEffects(ctx, tx, ordersRepo, order, mapped); err != nil {
			return err
		}

		outcome = OutcomeApplied
		eventType, ok := eventTypeForStatus(mapped)
		if !ok {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			StoreID:       order.StoreID,
			Version:       1,
			Data: payments.PaymentStatusChangedEvent{
				PaymentID:   payment.ID,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				StoreID:     order.StoreID,
				Status:      payment.Status,
				Method:      payment.Method,
				Amount:      payment.Amount.StringFixed(2),
				Source:      "gateway",
			},
		})
	})
	if err != nil {
		s.metrics.ObserveWebhookOutcome("rejected")
		return OutcomeIgnored, err
	}

	s.metrics.ObserveWebhookOutcome(string(outcome))
	return outcome, nil
}

// applyOrderSideEffects moves the kitchen status in response to a payment
// outcome: settled payments confirm a pending order, failed payments
// cancel anything not already finished.
func (s *Service) applyOrderSideEffects(ctx context.Context, tx *gorm.DB, repo orders.Repository, order *models.Order, mapped enums.PaymentStatus) error {
	var target enums.OrderStatus
	switch {
	case mapped == enums.PaymentStatusPaid && order.Status == enums.OrderStatusPending:
		target = enums.OrderStatusConfirmed
	case mapped == enums.PaymentStatusFailed && !order.Status.IsTerminal():
		target = enums.OrderStatusCancelled
	default:
		return nil
	}

	from := order.Status
	if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target
	s.metrics.ObserveTransition(from.String(), target.String())

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		StoreID:       order.StoreID,
		Version:       1,
		Data: orders.OrderStatusChangedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			StoreID:     order.StoreID,
			From:        from,
			To:          target,
		},
	})
}

func methodFromPaymentType(paymentType string) enums.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(paymentType)) {
	case "qris", "gopay", "shopeepay":
		return enums.PaymentMethodQRIS
	case "bank_transfer", "echannel", "permata":
		return enums.PaymentMethodBankTransfer
	case "credit_card":
		return enums.PaymentMethodCard
	case "akulaku", "kredivo":
		return enums.PaymentMethodEwallet
	case "cstore", "cash":
		return enums.PaymentMethodCash
	default:
		return ""
	}
}

func eventTypeForStatus(status enums.PaymentStatus) (enums.OutboxEventType, bool) {
	switch status {
	case enums.PaymentStatusPaid:
		return enums.EventPaymentSettled, true
	case enums.PaymentStatusFailed:
		return enums.EventPaymentFailed, true
	default:
		return "", false
	}
}
