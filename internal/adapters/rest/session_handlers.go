package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"rental-listing-client/internal/adapters/notifier"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"

	"github.com/go-chi/chi/v5"
)

type SessionHandlers struct {
	sessions        *SessionRegistry
	notifier        *notifier.SSENotifier
	defaultPageSize int
}

func NewSessionHandlers(sessions *SessionRegistry, sseNotifier *notifier.SSENotifier, defaultPageSize int) *SessionHandlers {
	if defaultPageSize <= 0 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &SessionHandlers{
		sessions:        sessions,
		notifier:        sseNotifier,
		defaultPageSize: defaultPageSize,
	}
}

// CreateSession - POST /api/v1/sessions
func (h *SessionHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateSession"})

	var req CreateSessionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	pageSize := h.defaultPageSize
	if req.PageSize != nil {
		if *req.PageSize <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "page_size must be positive")
			return
		}
		pageSize = *req.PageSize
	}

	scope := domain.GlobalScope()
	if req.LandlordID != nil {
		scope = domain.LandlordScope(*req.LandlordID)
	}

	id, controller := h.sessions.Create(pageSize)
	handlerLogger := logger.WithFields(port.Fields{"session_id": id, "scope": scope.String()})

	if err := controller.Activate(r.Context(), scope); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.sessions.Delete(id)
			handlerLogger.Warn("Session activation rejected", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Сессия остается: ошибка видна в поле failure, клиент может повторить refresh
		handlerLogger.Error("Session created, but first listing failed", err, nil)
	} else {
		handlerLogger.Info("Session created", nil)
	}

	RespondWithJSON(w, http.StatusCreated, toSessionResponse(id, controller))
}

// GetSession - GET /api/v1/sessions/{sessionID}
func (h *SessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.session(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(id, controller))
}

// DeleteSession - DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.sessions.Delete(id) {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id))
		return
	}
	contextkeys.LoggerFromContext(r.Context()).Info("Session deleted", port.Fields{"session_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// SetScope - PUT /api/v1/sessions/{sessionID}/scope
func (h *SessionHandlers) SetScope(w http.ResponseWriter, r *http.Request) {
	var req ScopeRequest
	h.run(w, r, "SetScope", &req, func(ctx context.Context, c SessionController) error {
		scope := domain.GlobalScope()
		if req.LandlordID != nil {
			scope = domain.LandlordScope(*req.LandlordID)
		}
		return c.Activate(ctx, scope)
	})
}

// ApplySearch - PUT /api/v1/sessions/{sessionID}/search
func (h *SessionHandlers) ApplySearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	h.run(w, r, "ApplySearch", &req, func(ctx context.Context, c SessionController) error {
		return c.ApplySearch(ctx, req.Keyword)
	})
}

// GoToPage - PUT /api/v1/sessions/{sessionID}/page
func (h *SessionHandlers) GoToPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	h.run(w, r, "GoToPage", &req, func(ctx context.Context, c SessionController) error {
		return c.GoToPage(ctx, req.Page)
	})
}

// SetPageSize - PUT /api/v1/sessions/{sessionID}/page-size
func (h *SessionHandlers) SetPageSize(w http.ResponseWriter, r *http.Request) {
	var req PageSizeRequest
	h.run(w, r, "SetPageSize", &req, func(ctx context.Context, c SessionController) error {
		return c.SetPageSize(ctx, req.Size)
	})
}

// Refresh - POST /api/v1/sessions/{sessionID}/refresh
func (h *SessionHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Refresh", nil, func(ctx context.Context, c SessionController) error {
		return c.Refresh(ctx)
	})
}

// AddProperty - POST /api/v1/sessions/{sessionID}/properties
func (h *SessionHandlers) AddProperty(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	h.run(w, r, "AddProperty", &req, func(ctx context.Context, c SessionController) error {
		return c.Mutate(ctx, domain.AddIntent(req.toDraft()))
	})
}

// EditProperty - PUT /api/v1/sessions/{sessionID}/properties/{propertyID}
func (h *SessionHandlers) EditProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := int64URLParam(r, "propertyID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PropertyRequest
	h.run(w, r, "EditProperty", &req, func(ctx context.Context, c SessionController) error {
		return c.Mutate(ctx, domain.EditIntent(propertyID, req.toDraft()))
	})
}

// DeleteProperty - DELETE /api/v1/sessions/{sessionID}/properties/{propertyID}
func (h *SessionHandlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := int64URLParam(r, "propertyID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.run(w, r, "DeleteProperty", nil, func(ctx context.Context, c SessionController) error {
		return c.Mutate(ctx, domain.DeleteIntent(propertyID))
	})
}

// SetAvailability - PUT /api/v1/sessions/{sessionID}/properties/{propertyID}/availability
// В теле передается ТЕКУЩЕЕ значение, бэкенд его переключает.
func (h *SessionHandlers) SetAvailability(w http.ResponseWriter, r *http.Request) {
	propertyID, err := int64URLParam(r, "propertyID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req AvailabilityRequest
	h.run(w, r, "SetAvailability", &req, func(ctx context.Context, c SessionController) error {
		if req.Current == nil {
			return fmt.Errorf("%w: current availability is required", domain.ErrValidation)
		}
		return c.SetAvailability(ctx, propertyID, domain.Availability(*req.Current))
	})
}

// PresentForm - GET /api/v1/sessions/{sessionID}/forms/{mode}?property_id=
func (h *SessionHandlers) PresentForm(w http.ResponseWriter, r *http.Request) {
	_, controller, ok := h.session(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PresentForm"})

	mode, err := domain.ParseFormMode(chi.URLParam(r, "mode"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var propertyID int64
	if raw := r.URL.Query().Get("property_id"); raw != "" {
		propertyID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "property_id must be an integer")
			return
		}
	}

	form, err := controller.PresentForm(r.Context(), mode, propertyID)
	if err != nil {
		logger.Warn("Could not present form", port.Fields{"error": err.Error(), "mode": string(mode)})
		WriteJSONError(w, StatusForError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, toFormResponse(form))
}

// session достает контроллер по {sessionID} или пишет 404.
func (h *SessionHandlers) session(w http.ResponseWriter, r *http.Request) (string, SessionController, bool) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.sessions.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id))
		return id, nil, false
	}
	return id, controller, true
}

// run - общий путь команд сессии: найти сессию, разобрать тело, выполнить и вернуть вид сессии.
func (h *SessionHandlers) run(w http.ResponseWriter, r *http.Request, name string, body interface{}, op func(ctx context.Context, c SessionController) error) {
	id, controller, ok := h.session(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    name,
		"session_id": id,
	})

	if body != nil {
		if err := decodeJSONBody(r, body); err != nil {
			logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := op(r.Context(), controller); err != nil {
		status := StatusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Session command failed", err, nil)
		} else {
			logger.Warn("Session command rejected", port.Fields{"error": err.Error()})
		}
		WriteJSONError(w, status, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(id, controller))
}
