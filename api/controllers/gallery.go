package controllers

import (
	"net/http"

	"github.com/shoreline-studio/shop-backend/api/responses"
	"github.com/shoreline-studio/shop-backend/internal/gallery"
	pkgerrors "github.com/shoreline-studio/shop-backend/pkg/errors"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// ListGallery serves the public sold gallery.
func ListGallery(repo gallery.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery unavailable"))
			return
		}

		limit, offset := paginationParams(r)
		items, err := repo.Visible(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list gallery"))
			return
		}
		responses.WriteSuccess(w, items)
	}
}
