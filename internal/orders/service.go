package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/metrics"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order lifecycle operations.
type Service interface {
	Advance(ctx context.Context, input AdvanceInput) (*models.Order, error)
	List(ctx context.Context, input ListInput) ([]models.Order, int64, error)
	Detail(ctx context.Context, input DetailInput) (*models.Order, error)
	CreatePublic(ctx context.Context, input CreatePublicOrderRequest) (*models.Order, error)
	PublicStatus(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.LifecycleMetrics
}

// AdvanceInput captures a staff request to move an order along the chain.
type AdvanceInput struct {
	OrderID      uuid.UUID
	Target       enums.OrderStatus
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// ListInput scopes an order listing to the actor's store.
type ListInput struct {
	StoreID uuid.UUID
	Filter  ListFilter
}

// DetailInput identifies a single scoped order read.
type DetailInput struct {
	OrderID uuid.UUID
	StoreID uuid.UUID
}

// OrderStatusChangedEvent is emitted whenever a transition is applied.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	StoreID     uuid.UUID         `json:"store_id"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
}

// OrderCreatedEvent is emitted when a guest order lands.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	StoreID     uuid.UUID  `json:"store_id"`
	TableID     *uuid.UUID `json:"table_id,omitempty"`
	Total       string     `json:"total"`
	ItemCount   int        `json:"item_count"`
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, lifecycle *metrics.LifecycleMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		metrics: lifecycle,
	}, nil
}

// Advance applies a single status transition to a scoped order. Repeating
// the current status is a no-op so retried requests stay safe.
func (s *service) Advance(ctx context.Context, input AdvanceInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForStore(ctx, input.OrderID, input.ActorStoreID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == input.Target {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
				WithDetails(map[string]any{"from": order.Status, "to": input.Target})
		}

		from := order.Status
		if err := repo.UpdateStatus(ctx, order.ID, input.Target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = input.Target
		result = order

		s.metrics.ObserveTransition(from.String(), input.Target.String())

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			StoreID:       order.StoreID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID:  input.ActorUserID,
				StoreID: input.ActorStoreID,
				Role:    input.ActorRole,
			},
			Data: OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				StoreID:     order.StoreID,
				From:        from,
				To:          input.Target,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.Order, int64, error) {
	if input.StoreID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}
	if input.Filter.Limit <= 0 {
		input.Filter.Limit = 20
	}
	rows, total, err := s.repo.ListForStore(ctx, input.StoreID, input.Filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, total, nil
}

func (s *service) Detail(ctx context.Context, input DetailInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}
	order, err := s.repo.FindByIDForStore(ctx, input.OrderID, input.StoreID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// CreatePublic records a guest order against the table identified by its
// QR token. The table row supplies the tenant scope.
func (s *service) CreatePublic(ctx context.Context, input CreatePublicOrderRequest) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		unitPrice, err := decimal.NewFromString(strings.TrimSpace(line.UnitPrice))
		if err != nil || unitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit price").
				WithDetails(map[string]any{"item": line.Name})
		}
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  unitPrice,
			Quantity:   line.Quantity,
			Subtotal:   unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Notes:      line.Notes,
		})
	}
	total := sumItemSubtotals(items)

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		table, err := repo.FindTableByQRCode(ctx, input.QRCode)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table")
		}

		orderNumber, err := generateOrderNumber(time.Now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		order := &models.Order{
			StoreID:       table.StoreID,
			TableID:       &table.ID,
			OrderNumber:   orderNumber,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusUnpaid,
			Total:         total,
			Notes:         input.Notes,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items

		payment := &models.Payment{
			OrderID: order.ID,
			StoreID: order.StoreID,
			Status:  enums.PaymentStatusPending,
			Method:  enums.PaymentMethodCash,
			Amount:  total,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		if table.Status != enums.TableStatusOccupied {
			if err := repo.MarkTableOccupied(ctx, table.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "occupy table")
			}
		}

		result = order
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			StoreID:       order.StoreID,
			Version:       1,
			Data: OrderCreatedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				StoreID:     order.StoreID,
				TableID:     order.TableID,
				Total:       total.StringFixed(2),
				ItemCount:   len(items),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PublicStatus returns an order by its ID without tenant scoping. Order IDs
// are unguessable UUIDs handed to the guest at creation time.
func (s *service) PublicStatus(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func generateOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("SV-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix))), nil
}
