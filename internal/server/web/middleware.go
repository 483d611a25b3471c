package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/folio/internal/common"
)

type ctxKey string

const adminIDKey ctxKey = "adminID"

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireAdmin lets a request through when the session carries a valid
// access token. An expired access token is replaced using the refresh
// token; when that fails too the session is cleared and the browser is
// sent to the login page.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.adminSession(r)
		access, _ := sess.Values[sessAccess].(string)
		refresh, _ := sess.Values[sessRefresh].(string)

		adminID, err := s.users.VerifyAccessToken(access)
		if errors.Is(err, common.ErrTokenExpired) && refresh != "" {
			pair, rerr := s.users.RefreshToken(r.Context(), refresh)
			if rerr == nil {
				sess.Values[sessAccess] = pair.AccessToken
				sess.Values[sessRefresh] = pair.RefreshToken
				if serr := sess.Save(r, w); serr != nil {
					s.logger.Error(r.Context(), "session save failed", "error", serr)
				}
				adminID, err = s.users.VerifyAccessToken(pair.AccessToken)
			} else {
				err = rerr
			}
		}
		if err != nil {
			s.logger.Debug(r.Context(), "admin gate rejected", "error", err)
			s.clearAdminSession(w, r)
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminID(r *http.Request) string {
	id, _ := r.Context().Value(adminIDKey).(string)
	return id
}
