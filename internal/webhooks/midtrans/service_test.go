package midtranswebhook

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/internal/orders"
	"github.com/mocharil/savora-backend/internal/payments"
	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/midtrans"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

const testServerKey = "SB-Mid-server-test"

type stubOrdersRepo struct {
	order                *models.Order
	updatedStatus        enums.OrderStatus
	updatedPaymentStatus enums.PaymentStatus
	statusCalled         bool
	paymentStatusCalled  bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	panic("not implemented")
}

func (s *stubOrdersRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindByIDForStore(ctx context.Context, orderID, storeID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.order == nil || s.order.OrderNumber != orderNumber {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) ListForStore(ctx context.Context, storeID uuid.UUID, filter orders.ListFilter) ([]models.Order, int64, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	s.statusCalled = true
	s.updatedStatus = status
	return nil
}

func (s *stubOrdersRepo) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	s.paymentStatusCalled = true
	s.updatedPaymentStatus = status
	return nil
}

func (s *stubOrdersRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindTableByQRCode(ctx context.Context, qrCode string) (*models.Table, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) MarkTableOccupied(ctx context.Context, tableID uuid.UUID) error {
	panic("not implemented")
}

type stubPaymentsRepo struct {
	payment *models.Payment
	created *models.Payment
	updated *models.Payment
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) payments.Repository {
	return s
}

func (s *stubPaymentsRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if s.payment == nil {
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

func newTestService(t *testing.T, ordersRepo *stubOrdersRepo, paymentsRepo *stubPaymentsRepo, publisher *stubOutboxPublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		OrdersRepo:        ordersRepo,
		PaymentsRepo:      paymentsRepo,
		TransactionRunner: stubTxRunner{},
		Outbox:            publisher,
		ServerKey:         testServerKey,
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func signedNotification(orderNumber, transactionStatus string) midtrans.Notification {
	n := midtrans.Notification{
		OrderID:           orderNumber,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: transactionStatus,
		TransactionID:     "mid-tx-001",
		PaymentType:       "qris",
	}
	n.SignatureKey = midtrans.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		OrderNumber:   "SV-20260115-A1B2C3",
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Total:         decimal.NewFromInt(150000),
	}
}

func TestReconcileRejectsBadSignature(t *testing.T) {
	ordersRepo := &stubOrdersRepo{order: pendingOrder()}
	paymentsRepo := &stubPaymentsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	n := signedNotification("SV-20260115-A1B2C3", "settlement")
	n.SignatureKey = "deadbeef"

	outcome, err := svc.Reconcile(context.Background(), n)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if ordersRepo.paymentStatusCalled || paymentsRepo.created != nil || paymentsRepo.updated != nil {
		t.Fatal("rejected notification must not write")
	}
}

func TestReconcileSettlementConfirmsPendingOrder(t *testing.T) {
	order := pendingOrder()
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	outcome, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "settlement"))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if paymentsRepo.created == nil {
		t.Fatal("expected payment row created")
	}
	if paymentsRepo.created.Status != enums.PaymentStatusPaid {
		t.Fatalf("expected paid payment got %s", paymentsRepo.created.Status)
	}
	if paymentsRepo.created.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}
	if paymentsRepo.created.GatewayReference == nil || *paymentsRepo.created.GatewayReference != "mid-tx-001" {
		t.Fatal("expected gateway reference recorded")
	}
	if paymentsRepo.created.Method != enums.PaymentMethodQRIS {
		t.Fatalf("expected qris method got %s", paymentsRepo.created.Method)
	}
	if ordersRepo.updatedPaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected order payment status paid got %s", ordersRepo.updatedPaymentStatus)
	}
	if ordersRepo.updatedStatus != enums.OrderStatusConfirmed {
		t.Fatalf("expected order confirmed got %s", ordersRepo.updatedStatus)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected two events got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("unexpected first event %s", publisher.events[0].EventType)
	}
	if publisher.events[1].EventType != enums.EventPaymentSettled {
		t.Fatalf("unexpected second event %s", publisher.events[1].EventType)
	}
}

func TestReconcileRedeliveryIsNoOp(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusConfirmed
	order.PaymentStatus = enums.PaymentStatusPaid
	paidAt := time.Now().Add(-time.Hour)
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{payment: &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		Status:  enums.PaymentStatusPaid,
		Method:  enums.PaymentMethodQRIS,
		Amount:  order.Total,
		PaidAt:  &paidAt,
	}}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	outcome, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "settlement"))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if paymentsRepo.updated != nil || ordersRepo.paymentStatusCalled || ordersRepo.statusCalled {
		t.Fatal("redelivery must not write")
	}
	if len(publisher.events) != 0 {
		t.Fatalf("unexpected events %d", len(publisher.events))
	}
}

func TestReconcileNeverRegressesPaidPayment(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusPreparing
	order.PaymentStatus = enums.PaymentStatusPaid
	paidAt := time.Now().Add(-time.Hour)
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		Status:  enums.PaymentStatusPaid,
		Amount:  order.Total,
		PaidAt:  &paidAt,
	}
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{payment: payment}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	outcome, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "expire"))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if payment.Status != enums.PaymentStatusPaid {
		t.Fatalf("paid payment regressed to %s", payment.Status)
	}
	if paymentsRepo.updated != nil || ordersRepo.statusCalled {
		t.Fatal("expired notification after settlement must not write")
	}
}

func TestReconcileDenyCancelsOrder(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusConfirmed
	order.PaymentStatus = enums.PaymentStatusPending
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		Status:  enums.PaymentStatusPending,
		Amount:  order.Total,
	}
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{payment: payment}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	outcome, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "deny"))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if paymentsRepo.updated == nil || paymentsRepo.updated.Status != enums.PaymentStatusFailed {
		t.Fatal("expected payment marked failed")
	}
	if paymentsRepo.updated.PaidAt != nil {
		t.Fatal("failed payment must not carry paid_at")
	}
	if ordersRepo.updatedPaymentStatus != enums.PaymentStatusFailed {
		t.Fatalf("expected order payment status failed got %s", ordersRepo.updatedPaymentStatus)
	}
	if ordersRepo.updatedStatus != enums.OrderStatusCancelled {
		t.Fatalf("expected order cancelled got %s", ordersRepo.updatedStatus)
	}
	if len(publisher.events) != 2 || publisher.events[1].EventType != enums.EventPaymentFailed {
		t.Fatal("expected cancellation and failure events")
	}
}

func TestReconcileDenyLeavesCompletedOrder(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusCompleted
	order.PaymentStatus = enums.PaymentStatusPending
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		Status:  enums.PaymentStatusPending,
		Amount:  order.Total,
	}
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{payment: payment}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	if _, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "deny")); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if ordersRepo.statusCalled {
		t.Fatal("completed order must keep its status")
	}
	if paymentsRepo.updated == nil || paymentsRepo.updated.Status != enums.PaymentStatusFailed {
		t.Fatal("expected payment still marked failed")
	}
}

func TestReconcilePendingDoesNotEmit(t *testing.T) {
	order := pendingOrder()
	ordersRepo := &stubOrdersRepo{order: order}
	paymentsRepo := &stubPaymentsRepo{payment: &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		StoreID: order.StoreID,
		Status:  enums.PaymentStatusPending,
		Amount:  order.Total,
	}}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	outcome, err := svc.Reconcile(context.Background(), signedNotification(order.OrderNumber, "pending"))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("unexpected outcome %s", outcome)
	}
	if ordersRepo.updatedPaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected order payment status pending got %s", ordersRepo.updatedPaymentStatus)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("pending settlement must not emit, got %d events", len(publisher.events))
	}
}

func TestReconcileUnknownOrder(t *testing.T) {
	ordersRepo := &stubOrdersRepo{}
	paymentsRepo := &stubPaymentsRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, ordersRepo, paymentsRepo, publisher)

	_, err := svc.Reconcile(context.Background(), signedNotification("SV-20260101-FFFFFF", "settlement"))
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}
