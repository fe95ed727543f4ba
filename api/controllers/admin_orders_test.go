package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
)

type stubOrdersRepo struct {
	listFn func(ctx context.Context, limit, offset int) ([]models.Order, error)
	findFn func(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

func (s stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return s
}

func (s stubOrdersRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return nil, nil
}

func (s stubOrdersRepo) FindByDisplayID(ctx context.Context, displayID string) (*models.Order, error) {
	return nil, nil
}

func (s stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, nil
}

func (s stubOrdersRepo) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return nil
}

func (s stubOrdersRepo) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return nil
}

type stubBackfiller struct {
	assigned int
	err      error
}

func (s stubBackfiller) Backfill(ctx context.Context) (int, error) {
	return s.assigned, s.err
}

func TestAdminListOrders(t *testing.T) {
	displayID := "25-007"
	repo := stubOrdersRepo{
		listFn: func(ctx context.Context, limit, offset int) ([]models.Order, error) {
			return []models.Order{{ID: uuid.New(), DisplayID: &displayID, TotalCents: 5300}}, nil
		},
	}

	handler := AdminListOrders(repo, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].TotalCents != 5300 {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestAdminOrderDetailNotFound(t *testing.T) {
	handler := AdminOrderDetail(stubOrdersRepo{}, nil)
	id := uuid.NewString()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/orders/"+id, nil), "orderId", id)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminBackfillDisplayIDs(t *testing.T) {
	handler := AdminBackfillDisplayIDs(stubBackfiller{assigned: 3}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/orders/backfill-display-ids", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["assigned"] != 3 {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestAdminBackfillDisplayIDsFailure(t *testing.T) {
	handler := AdminBackfillDisplayIDs(stubBackfiller{err: errors.New("db down")}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/orders/backfill-display-ids", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
