package common

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/types"
)

// HttpError carries the status code a handler wants returned.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string {
	return e.Err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(status int, err error) error {
	return &HttpError{Status: status, Err: err}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type JsonFunc func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error

func JsonHandler(trk types.Tracking, fn JsonFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				WriteError(w, NewHttpError(http.StatusInternalServerError, errors.New("something went wrong, reload and try again")))
			}
		}()
		sessionId := HandleSessionCookie(trk, w, r)
		w.Header().Set("Content-Type", "application/json")

		if err := fn(w, r, sessionId, jsoncompat.NewEncoder(w)); err != nil {
			log.Printf("Error handling request %s %s: %v", r.Method, r.URL.Path, err)
			WriteError(w, err)
		}
	}
}

func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		status = httpErr.Status
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jsoncompat.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
