package handler

import (
	"fmt"
	"net/http"

	"github.com/Dan9191/message-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every endpoint. Paths answer with and without the trailing
// slash; methods a route does not support get 405.
func NewRouter(h *Handler, authn middleware.Authenticator, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", req.Method))
	})

	// Public routes
	handle(r, "/users", h.CreateUser, http.MethodPost)
	handle(r, "/users", h.ListUsers, http.MethodGet)
	handle(r, "/users/{id:[0-9]+}", h.GetUser, http.MethodGet)

	// Protected routes
	protected := middleware.AuthMiddleware(authn, log)
	handle(r, "/messages", protect(protected, h.CreateMessage), http.MethodPost)
	handle(r, "/messages", protect(protected, h.ListMessages), http.MethodGet)
	handle(r, "/messages/{id:[0-9]+}", protect(protected, h.GetMessage), http.MethodGet)
	handle(r, "/messages/{id:[0-9]+}", protect(protected, h.UpdateMessage), http.MethodPut, http.MethodPatch)
	handle(r, "/messages/{id:[0-9]+}", protect(protected, h.DeleteMessage), http.MethodDelete)

	return r
}

func handle(r *mux.Router, path string, fn http.HandlerFunc, methods ...string) {
	r.HandleFunc(path, fn).Methods(methods...)
	r.HandleFunc(path+"/", fn).Methods(methods...)
}

func protect(mw mux.MiddlewareFunc, fn http.HandlerFunc) http.HandlerFunc {
	return mw(fn).ServeHTTP
}
