package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

type stubPaymentsRepo struct {
	payment *models.Payment
	created *models.Payment
	updated *models.Payment
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPaymentsRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if s.payment == nil || s.payment.OrderID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payment, nil
}

func (s *stubPaymentsRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.created = payment
	return nil
}

func (s *stubPaymentsRepo) Update(ctx context.Context, payment *models.Payment) error {
	s.updated = payment
	return nil
}

type stubOrderReader struct {
	order               *models.Order
	updatedStatus       enums.PaymentStatus
	paymentStatusCalled bool
}

func (s *stubOrderReader) FindByIDForStore(ctx context.Context, tx *gorm.DB, orderID, storeID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID || s.order.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderReader) UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status enums.PaymentStatus) error {
	s.paymentStatusCalled = true
	s.updatedStatus = status
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo *stubPaymentsRepo, reader *stubOrderReader, publisher *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, reader, stubTxRunner{}, publisher)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func cashOrder(storeID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		StoreID:       storeID,
		OrderNumber:   "SV-20260115-0A1B2C",
		Status:        enums.OrderStatusReady,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Total:         decimal.NewFromInt(85000),
	}
}

func TestSetPaymentStatusCreatesPayment(t *testing.T) {
	storeID := uuid.New()
	order := cashOrder(storeID)
	repo := &stubPaymentsRepo{}
	reader := &stubOrderReader{order: order}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, reader, publisher)

	payment, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusPaid,
		ActorUserID:  uuid.New(),
		ActorStoreID: storeID,
		ActorRole:    enums.MemberRoleOutletAdmin.String(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected payment row created")
	}
	if payment.Method != enums.PaymentMethodCash {
		t.Fatalf("expected cash default got %s", payment.Method)
	}
	if !payment.Amount.Equal(order.Total) {
		t.Fatal("payment amount must match order total")
	}
	if payment.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}
	if reader.updatedStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected order payment status paid got %s", reader.updatedStatus)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one event got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventPaymentSettled {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	payload, ok := event.Data.(PaymentStatusChangedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Data)
	}
	if payload.Source != "manual" {
		t.Fatalf("expected manual source got %s", payload.Source)
	}
}

func TestSetPaymentStatusOverridesMethod(t *testing.T) {
	storeID := uuid.New()
	order := cashOrder(storeID)
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: storeID,
		Status:  enums.PaymentStatusPending,
		Method:  enums.PaymentMethodCash,
		Amount:  order.Total,
	}
	repo := &stubPaymentsRepo{payment: payment}
	reader := &stubOrderReader{order: order}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, reader, publisher)

	method := enums.PaymentMethodBankTransfer
	updated, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusPaid,
		Method:       &method,
		ActorUserID:  uuid.New(),
		ActorStoreID: storeID,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.updated == nil {
		t.Fatal("expected payment row updated")
	}
	if updated.Method != enums.PaymentMethodBankTransfer {
		t.Fatalf("expected bank transfer got %s", updated.Method)
	}
	if updated.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}
}

func TestSetPaymentStatusAllowsCorrectionBackToPending(t *testing.T) {
	storeID := uuid.New()
	order := cashOrder(storeID)
	order.PaymentStatus = enums.PaymentStatusPaid
	paidAt := time.Now().Add(-time.Hour)
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: storeID,
		Status:  enums.PaymentStatusPaid,
		Method:  enums.PaymentMethodCash,
		Amount:  order.Total,
		PaidAt:  &paidAt,
	}
	repo := &stubPaymentsRepo{payment: payment}
	reader := &stubOrderReader{order: order}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, reader, publisher)

	updated, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusPending,
		ActorUserID:  uuid.New(),
		ActorStoreID: storeID,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending got %s", updated.Status)
	}
	if updated.PaidAt != nil {
		t.Fatal("correction must clear paid_at")
	}
	if reader.updatedStatus != enums.PaymentStatusPending {
		t.Fatalf("expected order payment status pending got %s", reader.updatedStatus)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("pending correction must not emit, got %d events", len(publisher.events))
	}
}

func TestSetPaymentStatusRepeatDoesNotEmit(t *testing.T) {
	storeID := uuid.New()
	order := cashOrder(storeID)
	order.PaymentStatus = enums.PaymentStatusPaid
	paidAt := time.Now().Add(-time.Hour)
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: storeID,
		Status:  enums.PaymentStatusPaid,
		Method:  enums.PaymentMethodCash,
		Amount:  order.Total,
		PaidAt:  &paidAt,
	}
	repo := &stubPaymentsRepo{payment: payment}
	reader := &stubOrderReader{order: order}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, reader, publisher)

	updated, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusPaid,
		ActorUserID:  uuid.New(),
		ActorStoreID: storeID,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.PaidAt == nil || !updated.PaidAt.Equal(paidAt) {
		t.Fatal("repeat must keep the original paid_at")
	}
	if len(publisher.events) != 0 {
		t.Fatalf("repeat must not emit, got %d events", len(publisher.events))
	}
}

func TestSetPaymentStatusHidesForeignOrder(t *testing.T) {
	order := cashOrder(uuid.New())
	repo := &stubPaymentsRepo{}
	reader := &stubOrderReader{order: order}
	svc := newTestService(t, repo, reader, &stubOutboxPublisher{})

	_, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusPaid,
		ActorUserID:  uuid.New(),
		ActorStoreID: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestSetPaymentStatusRejectsUnpaidTarget(t *testing.T) {
	storeID := uuid.New()
	order := cashOrder(storeID)
	repo := &stubPaymentsRepo{}
	reader := &stubOrderReader{order: order}
	svc := newTestService(t, repo, reader, &stubOutboxPublisher{})

	_, err := svc.SetPaymentStatus(context.Background(), SetPaymentStatusInput{
		OrderID:      order.ID,
		Status:       enums.PaymentStatusUnpaid,
		ActorUserID:  uuid.New(),
		ActorStoreID: storeID,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	if reader.paymentStatusCalled {
		t.Fatal("rejected input must not write")
	}
}
