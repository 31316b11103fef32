package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type OrderReader interface {
	FindByIDForStore(ctx context.Context, tx *gorm.DB, orderID, storeID uuid.UUID) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status enums.PaymentStatus) error
}

// Service defines the staff-side payment reconciliation surface.
type Service interface {
	SetPaymentStatus(ctx context.Context, input SetPaymentStatusInput) (*models.Payment, error)
}

type service struct {
	repo   Repository
	orders OrderReader
	tx     txRunner
	outbox outboxPublisher
}

// SetPaymentStatusRequest is the admin reconciliation request body.
type SetPaymentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending paid failed"`
	Method *string `json:"method,omitempty" validate:"omitempty,oneof=cash qris bank_transfer credit_card ewallet"`
}

// SetPaymentStatusInput captures a manual payment status override. The
// admin path deliberately has no monotonicity guard: staff must be able to
// correct a mistaken paid mark back to pending.
type SetPaymentStatusInput struct {
	OrderID      uuid.UUID
	Status       enums.PaymentStatus
	Method       *enums.PaymentMethod
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// PaymentStatusChangedEvent is emitted when a payment settles or fails.
type PaymentStatusChangedEvent struct {
	PaymentID   uuid.UUID           `json:"payment_id"`
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	StoreID     uuid.UUID           `json:"store_id"`
	Status      enums.PaymentStatus `json:"status"`
	Method      enums.PaymentMethod `json:"method"`
	Amount      string              `json:"amount"`
	Source      string              `json:"source"`
}

// NewService builds a payment service with the required dependencies.
func NewService(repo Repository, orders OrderReader, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		orders: orders,
		tx:     tx,
		outbox: outboxSvc,
	}, nil
}

func (s *service) SetPaymentStatus(ctx context.Context, input SetPaymentStatusInput) (*models.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsSettlement() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.Method != nil && !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}

	var result *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForStore(ctx, tx, input.OrderID, input.ActorStoreID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		repo := s.repo.WithTx(tx)
		payment, err := repo.FindByOrderID(ctx, order.ID)
		created := false
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
			}
			payment = &models.Payment{
				OrderID: order.ID,
				StoreID: order.StoreID,
				Status:  input.Status,
				Method:  enums.PaymentMethodCash,
				Amount:  order.Total,
			}
			created = true
		}

		changed := created || payment.Status != input.Status
		payment.Status = input.Status
		if input.Method != nil {
			payment.Method = *input.Method
		}
		if input.Status == enums.PaymentStatusPaid {
			if payment.PaidAt == nil {
				now := time.Now()
				payment.PaidAt = &now
			}
		} else {
			payment.PaidAt = nil
		}

		if created {
			if err := repo.Create(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
			}
		} else {
			if err := repo.Update(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
		}

		if err := s.orders.UpdatePaymentStatus(ctx, tx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
		}

		result = payment
		if !changed {
			return nil
		}

		eventType, ok := eventTypeForStatus(input.Status)
		if !ok {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			StoreID:       order.StoreID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID:  input.ActorUserID,
				StoreID: input.ActorStoreID,
				Role:    input.ActorRole,
			},
			Data: PaymentStatusChangedEvent{
				PaymentID:   payment.ID,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				StoreID:     order.StoreID,
				Status:      payment.Status,
				Method:      payment.Method,
				Amount:      payment.Amount.StringFixed(2),
				Source:      "manual",
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
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
