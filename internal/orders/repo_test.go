package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  table_id TEXT,
  order_number TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'unpaid',
  total TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  menu_item_id TEXT,
  name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  store_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  method TEXT NOT NULL DEFAULT 'cash',
  amount TEXT NOT NULL,
  gateway_reference TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	tables := `
CREATE TABLE IF NOT EXISTS tables (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  outlet_id TEXT,
  number TEXT NOT NULL,
  qr_code TEXT NOT NULL UNIQUE,
  capacity INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'available',
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{orders, orderItems, payments, tables} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, repo Repository, storeID uuid.UUID, orderNumber string, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		StoreID:       storeID,
		OrderNumber:   orderNumber,
		CustomerName:  "Sari",
		Status:        status,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Total:         decimal.NewFromInt(85000),
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryScopesReadsByStore(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	order := seedOrder(t, repo, storeID, "SV-20260115-"+uuid.NewString()[:6], enums.OrderStatusPending)

	items := []models.OrderItem{
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Name:      "Nasi Goreng",
			UnitPrice: decimal.NewFromInt(35000),
			Quantity:  2,
			Subtotal:  decimal.NewFromInt(70000),
		},
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Name:      "Es Teh",
			UnitPrice: decimal.NewFromInt(8000),
			Quantity:  1,
			Subtotal:  decimal.NewFromInt(8000),
		},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	found, err := repo.FindByIDForStore(ctx, order.ID, storeID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Len(t, found.Items, 2)

	_, err = repo.FindByIDForStore(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	byNumber, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
}

func TestRepositoryUpdatesStatuses(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	order := seedOrder(t, repo, storeID, "SV-20260115-"+uuid.NewString()[:6], enums.OrderStatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))
	require.NoError(t, repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPaid))

	reloaded, err := repo.FindByIDForStore(ctx, order.ID, storeID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
	assert.Equal(t, enums.PaymentStatusPaid, reloaded.PaymentStatus)
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	seedOrder(t, repo, storeID, "SV-20260115-"+uuid.NewString()[:6], enums.OrderStatusPending)
	ready := seedOrder(t, repo, storeID, "SV-20260115-"+uuid.NewString()[:6], enums.OrderStatusReady)
	seedOrder(t, repo, uuid.New(), "SV-20260115-"+uuid.NewString()[:6], enums.OrderStatusReady)

	status := enums.OrderStatusReady
	rows, total, err := repo.ListForStore(ctx, storeID, ListFilter{Status: &status, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, ready.ID, rows[0].ID)

	rows, total, err = repo.ListForStore(ctx, storeID, ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
}

func TestRepositoryTableLookupByQRCode(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	table := &models.Table{
		ID:      uuid.New(),
		StoreID: uuid.New(),
		Number:  "T-04",
		QRCode:  "qr-" + uuid.NewString(),
		Status:  enums.TableStatusAvailable,
	}
	require.NoError(t, db.Create(table).Error)

	found, err := repo.FindTableByQRCode(ctx, table.QRCode)
	require.NoError(t, err)
	assert.Equal(t, table.ID, found.ID)

	_, err = repo.FindTableByQRCode(ctx, "qr-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.MarkTableOccupied(ctx, table.ID))
	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, "id = ?", table.ID).Error)
	assert.Equal(t, enums.TableStatusOccupied, reloaded.Status)
}
