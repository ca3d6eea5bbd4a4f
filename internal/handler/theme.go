package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// ThemeHandler serves the theme preference of the authenticated user.
type ThemeHandler struct {
	service *service.ThemeService
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(svc *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{service: svc}
}

// HandleGetTheme handles GET /api/v1/preferences/theme requests.
func (h *ThemeHandler) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	theme, err := h.service.LoadTheme(r.Context(), owner)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ThemeResponse{Theme: theme})
}

// HandlePutTheme handles PUT /api/v1/preferences/theme requests.
func (h *ThemeHandler) HandlePutTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.ThemeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		}
		return
	}

	if err := h.service.SaveTheme(r.Context(), owner, req.Theme); err != nil {
		if errors.Is(err, service.ErrInvalidTheme) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ThemeResponse{Theme: req.Theme})
}

// HandleToggleTheme handles POST /api/v1/preferences/theme/toggle requests.
func (h *ThemeHandler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	theme, err := h.service.ToggleTheme(r.Context(), owner)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ThemeResponse{Theme: theme})
}

func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return "", false
	}
	return service.OwnerKey(userID), true
}
