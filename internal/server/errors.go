package server

import (
	"net/http"

	"github.com/pkg/errors"

	"uimage/internal/storage"
)

// Rejection classes. Handlers wrap one of these around the cause; only
// writeRejection decides what the client gets to see.
var (
	ErrParse           = errors.New("malformed multipart body")
	ErrValidation      = errors.New("validation failed")
	ErrIO              = errors.New("i/o failure")
	ErrNotFound        = errors.New("not found")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// rejection pairs a class with its cause so both match errors.Is.
type rejection struct {
	class error
	cause error
}

func (r *rejection) Error() string { return r.class.Error() + ": " + r.cause.Error() }
func (r *rejection) Unwrap() error { return r.cause }
func (r *rejection) Is(target error) bool {
	return target == r.class
}

func reject(class, cause error) error {
	return &rejection{class: class, cause: cause}
}

// statusFor maps a handler error onto the response the client sees.
// An oversized body is answered with 400 rather than 413; existing clients
// rely on it.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusBadRequest, "Payload too large"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func (s *Server) writeRejection(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.log.Info("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write([]byte(msg))
}
