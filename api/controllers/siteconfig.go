package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shoreline-studio/shop-backend/api/responses"
	"github.com/shoreline-studio/shop-backend/internal/siteconfig"
	pkgerrors "github.com/shoreline-studio/shop-backend/pkg/errors"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// GetSiteConfig serves the storefront settings map.
func GetSiteConfig(repo siteconfig.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config unavailable"))
			return
		}

		settings, err := repo.All(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load site config"))
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// AdminSetSiteConfig upserts one storefront setting.
func AdminSetSiteConfig(repo siteconfig.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "key"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "config key is required"))
			return
		}

		var body struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		if err := repo.Set(r.Context(), key, body.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save site config"))
			return
		}
		responses.WriteSuccess(w, map[string]string{key: body.Value})
	}
}
