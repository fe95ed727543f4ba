package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/internal/sequence"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

const ordersDDL = `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  display_id TEXT UNIQUE,
  payment_intent_id TEXT UNIQUE,
  total_cents INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'usd',
  customer_email TEXT,
  shipping_name TEXT,
  shipping_address_line1 TEXT,
  shipping_address_line2 TEXT,
  shipping_city TEXT,
  shipping_state TEXT,
  shipping_postal_code TEXT,
  shipping_country TEXT,
  card_last4 TEXT,
  card_brand TEXT,
  shipping_cents INTEGER NOT NULL DEFAULT 0,
  promo_code TEXT,
  promo_percent_off INTEGER,
  promo_free_shipping INTEGER NOT NULL DEFAULT 0,
  order_type TEXT NOT NULL DEFAULT 'shop',
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

const legacyOrdersDDL = `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  display_id TEXT UNIQUE,
  payment_intent_id TEXT UNIQUE,
  total_cents INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'usd',
  customer_email TEXT,
  shipping_name TEXT,
  shipping_address_line1 TEXT,
  shipping_address_line2 TEXT,
  shipping_city TEXT,
  shipping_state TEXT,
  shipping_postal_code TEXT,
  shipping_country TEXT,
  card_last4 TEXT,
  shipping_cents INTEGER NOT NULL DEFAULT 0,
  order_type TEXT NOT NULL DEFAULT 'shop',
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

const orderItemsDDL = `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  price_cents INTEGER NOT NULL,
  created_at DATETIME
);`

const orderCountersDDL = `
CREATE TABLE IF NOT EXISTS order_counters (
  year INTEGER PRIMARY KEY,
  counter INTEGER NOT NULL DEFAULT 0
);`

func setupOrdersTestDB(t *testing.T, ordersSchema string) *gorm.DB {
	t.Helper()

	// One named in-memory database per test so the legacy-schema variant gets
	// its own orders table shape while connections within a test share state.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(ordersSchema).Error)
	require.NoError(t, db.Exec(orderItemsDDL).Error)
	require.NoError(t, db.Exec(orderCountersDDL).Error)
	return db
}

func newMaterializer(t *testing.T, db *gorm.DB) (*Materializer, Repository) {
	t.Helper()
	repo := NewRepository(db)
	mat, err := NewMaterializer(repo, sequence.NewSequencer(db), nil)
	require.NoError(t, err)
	return mat, repo
}

func sampleInput(pi string) MaterializeInput {
	return MaterializeInput{
		PaymentIntentID: pi,
		TotalCents:      5300,
		Currency:        "usd",
		CustomerEmail:   "buyer@example.com",
		Shipping: ShippingDetails{
			Name:       "Jordan Buyer",
			Line1:      "42 Kiln St",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97201",
			Country:    "US",
		},
		CardLast4:     "4242",
		CardBrand:     "visa",
		ShippingCents: 800,
		OrderType:     enums.OrderTypeShop,
		OccurredAt:    time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		Items: []ItemInput{
			{Name: "Ceramic vase", Quantity: 1, PriceCents: 4500},
		},
	}
}

func TestMaterializeCreatesOrder(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, repo := newMaterializer(t, db)
	ctx := context.Background()

	order, created, err := mat.Materialize(ctx, sampleInput("pi_123"))
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, order.DisplayID)
	assert.Equal(t, "25-001", *order.DisplayID)
	assert.Len(t, order.Items, 1)

	stored, err := repo.FindByPaymentIntentID(ctx, "pi_123")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(5300), stored.TotalCents)
	assert.Equal(t, "visa", stored.CardBrand)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, "Ceramic vase", stored.Items[0].Name)
}

func TestMaterializeDuplicateIsNoOp(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, _ := newMaterializer(t, db)
	ctx := context.Background()

	first, created, err := mat.Materialize(ctx, sampleInput("pi_dup"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := mat.Materialize(ctx, sampleInput("pi_dup"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMaterializePersistsPromoContext(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, repo := newMaterializer(t, db)
	ctx := context.Background()

	input := sampleInput("pi_promo")
	input.Promo = &PromoContext{Code: "SPRING15", PercentOff: 15, FreeShipping: true}

	_, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)

	stored, err := repo.FindByPaymentIntentID(ctx, "pi_promo")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.PromoCode)
	assert.Equal(t, "SPRING15", *stored.PromoCode)
	require.NotNil(t, stored.PromoPercentOff)
	assert.Equal(t, 15, *stored.PromoPercentOff)
	assert.True(t, stored.PromoFreeShipping)
}

func TestMaterializeLegacySchemaDropsPromoColumns(t *testing.T) {
	db := setupOrdersTestDB(t, legacyOrdersDDL)
	mat, _ := newMaterializer(t, db)
	ctx := context.Background()

	input := sampleInput("pi_legacy")
	input.Promo = &PromoContext{Code: "SPRING15", PercentOff: 15}

	order, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, order.DisplayID)

	var total int64
	require.NoError(t, db.Raw("SELECT total_cents FROM orders WHERE payment_intent_id = ?", "pi_legacy").Scan(&total).Error)
	assert.Equal(t, int64(5300), total)
}

func TestMaterializeRequiresPaymentIntentOrDisplayID(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, _ := newMaterializer(t, db)

	_, _, err := mat.Materialize(context.Background(), MaterializeInput{})
	require.Error(t, err)
}

func TestMaterializeDisplayIDOverride(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, repo := newMaterializer(t, db)
	ctx := context.Background()

	input := sampleInput("")
	input.DisplayID = "25-777"

	order, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, order.DisplayID)
	assert.Equal(t, "25-777", *order.DisplayID)
	assert.Nil(t, order.PaymentIntentID)

	stored, err := repo.FindByDisplayID(ctx, "25-777")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(5300), stored.TotalCents)
}

func TestMaterializeDisplayIDOverrideDeduplicates(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, _ := newMaterializer(t, db)
	ctx := context.Background()

	input := sampleInput("")
	input.DisplayID = "25-778"

	first, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMaterializeOverrideSkipsAllocator(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, _ := newMaterializer(t, db)
	ctx := context.Background()

	input := sampleInput("pi_pinned")
	input.DisplayID = "25-900"

	order, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, order.DisplayID)
	assert.Equal(t, "25-900", *order.DisplayID)

	// The counter was never touched, so the next allocated ID starts at 001.
	next, created, err := mat.Materialize(ctx, sampleInput("pi_after"))
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, next.DisplayID)
	assert.Equal(t, "25-001", *next.DisplayID)
}

// failingItemRepo delegates everything except item inserts matching a name.
type failingItemRepo struct {
	Repository
	failName string
}

func (f *failingItemRepo) CreateItem(ctx context.Context, item *models.OrderItem) error {
	if item.Name == f.failName {
		return errors.New("simulated insert failure")
	}
	return f.Repository.CreateItem(ctx, item)
}

func (f *failingItemRepo) WithTx(tx *gorm.DB) Repository {
	return f
}

func TestMaterializeSurvivesPartialItemFailure(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	base := NewRepository(db)
	repo := &failingItemRepo{Repository: base, failName: "Broken line"}
	mat, err := NewMaterializer(repo, sequence.NewSequencer(db), nil)
	require.NoError(t, err)
	ctx := context.Background()

	input := sampleInput("pi_partial")
	input.Items = []ItemInput{
		{Name: "Ceramic vase", Quantity: 1, PriceCents: 4500},
		{Name: "Broken line", Quantity: 1, PriceCents: 100},
		{Name: "Tea bowl", Quantity: 2, PriceCents: 1800},
	}

	order, created, err := mat.Materialize(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, order.Items, 2)

	stored, err := base.FindByPaymentIntentID(ctx, "pi_partial")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
}

func TestListOrders(t *testing.T) {
	db := setupOrdersTestDB(t, ordersDDL)
	mat, repo := newMaterializer(t, db)
	ctx := context.Background()

	for _, pi := range []string{"pi_a", "pi_b", "pi_c"} {
		in := sampleInput(pi)
		_, _, err := mat.Materialize(ctx, in)
		require.NoError(t, err)
	}

	orders, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	rest, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
