package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/message-service/internal/middleware"
	"github.com/Dan9191/message-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	resourceUser    = "User"
	resourceMessage = "Message"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type createUserRequest struct {
	Email *string `json:"email"`
}

// CreateUser handles signup
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, resourceUser, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, resourceUser, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ListUsers handles the paginated user listing
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r.URL.Query())
	users, total, err := h.svc.ListUsers(r.Context(), p.Limit, p.Offset)
	if err != nil {
		h.writeError(w, r, resourceUser, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, p, total, users))
}

// GetUser handles retrieval of a single user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, resourceUser, err)
		return
	}
	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, r, resourceUser, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateMessage stores a message for the authenticated user
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	var in service.MessageInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	msg, err := h.svc.CreateMessage(r.Context(), identity, in)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListMessages lists the authenticated user's messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	q := r.URL.Query()
	p := parsePage(q)
	msgs, total, err := h.svc.ListMessages(r.Context(), identity, q.Get("search_by"), p.Limit, p.Offset)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, p, total, msgs))
}

// GetMessage retrieves one of the authenticated user's messages
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	msg, err := h.svc.GetMessage(r.Context(), identity, id)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// UpdateMessage handles PUT (full) and PATCH (partial) updates
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	var in service.MessageInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	msg, err := h.svc.UpdateMessage(r.Context(), identity, id, in, r.Method == http.MethodPatch)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// DeleteMessage removes one of the authenticated user's messages
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	if err := h.svc.DeleteMessage(r.Context(), identity, id); err != nil {
		h.writeError(w, r, resourceMessage, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID reads the {id} route variable. Ids that do not fit an int64 can
// never match a record.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.Join(service.ErrNotFound, err)
	}
	return id, nil
}
