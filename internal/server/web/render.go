package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/folio/internal/common"
)

const genericError = "Something went wrong. Please try again."

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// view returns the data every page template expects.
func (s *Server) view(title string) map[string]any {
	return map[string]any{
		"Title":   title,
		"Profile": s.profile,
		"Ticker":  s.ticker.Loop(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	t, ok := s.pages[page]
	if !ok {
		s.logger.Error(r.Context(), "unknown page", "page", page)
		http.Error(w, genericError, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Error(r.Context(), "render failed", "page", page, "error", err)
		http.Error(w, genericError, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", s.view("Not found"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorUnknownCollection):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorInvalidReference),
		errors.Is(err, common.ErrorInvalidAmount),
		errors.Is(err, common.ErrorInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorUploadFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// userMessage is what a visitor sees for err. Validation messages are safe
// to show; anything else is generic.
func userMessage(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	}
	return genericError
}
