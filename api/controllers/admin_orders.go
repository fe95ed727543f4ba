package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/api/responses"
	"github.com/shoreline-studio/shop-backend/internal/orders"
	pkgerrors "github.com/shoreline-studio/shop-backend/pkg/errors"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

type displayIDBackfiller interface {
	Backfill(ctx context.Context) (int, error)
}

// AdminListOrders returns recent orders, newest first.
func AdminListOrders(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		limit, offset := paginationParams(r)
		list, err := repo.List(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns a single order with its line items.
func AdminOrderDetail(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := repo.FindByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order"))
			return
		}
		if order == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminBackfillDisplayIDs assigns display IDs to legacy orders that predate
// the sequence counter.
func AdminBackfillDisplayIDs(seq displayIDBackfiller, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seq == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sequencer unavailable"))
			return
		}

		assigned, err := seq.Backfill(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "backfill display ids"))
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "assigned", assigned)
			logg.Info(ctx, "display id backfill complete")
		}
		responses.WriteSuccess(w, map[string]int{"assigned": assigned})
	}
}
