package web

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	adminSessionName = "folio_admin"
	flashSessionName = "folio_flash"

	sessAccess  = "access_token"
	sessRefresh = "refresh_token"
)

func (s *Server) adminSession(r *http.Request) *sessions.Session {
	// a cookie that fails to decode yields a fresh session
	sess, _ := s.store.Get(r, adminSessionName)
	return sess
}

func (s *Server) clearAdminSession(w http.ResponseWriter, r *http.Request) {
	sess := s.adminSession(r)
	delete(sess.Values, sessAccess)
	delete(sess.Values, sessRefresh)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "session clear failed", "error", err)
	}
}

// setFlash stores one-shot values shown on the next page load.
func (s *Server) setFlash(w http.ResponseWriter, r *http.Request, values map[string]string) {
	sess, _ := s.store.Get(r, flashSessionName)
	for k, v := range values {
		sess.AddFlash(v, k)
	}
	if err := sess.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "flash save failed", "error", err)
	}
}

// takeFlash reads and consumes the flash values for keys. Missing keys map
// to "".
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request, keys ...string) map[string]string {
	sess, _ := s.store.Get(r, flashSessionName)
	out := make(map[string]string, len(keys))
	found := false
	for _, k := range keys {
		fl := sess.Flashes(k)
		if len(fl) == 0 {
			out[k] = ""
			continue
		}
		found = true
		out[k], _ = fl[len(fl)-1].(string)
	}
	if found {
		if err := sess.Save(r, w); err != nil {
			s.logger.Error(r.Context(), "flash save failed", "error", err)
		}
	}
	return out
}
