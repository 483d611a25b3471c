// Package web serves the public site, the admin panel and the small JSON
// API used by the site's scripts and the payment gateway.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/media"
	"github.com/dmitrijs2005/folio/internal/server/profile"
	"github.com/dmitrijs2005/folio/internal/server/services"
	"github.com/dmitrijs2005/folio/internal/server/ticker"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators of the web layer.
type Deps struct {
	Site       *services.SiteService
	Users      *services.UserService
	Payments   *services.PaymentService
	Uploader   media.Uploader
	Ticker     *ticker.Ticker
	Profile    *profile.Profile
	SessionKey string
	AssetsDir  string
	Currency   string
	Logger     logging.Logger
}

type Server struct {
	site     *services.SiteService
	users    *services.UserService
	payments *services.PaymentService
	uploader media.Uploader
	ticker   *ticker.Ticker
	profile  *profile.Profile
	store    *sessions.CookieStore
	pages    map[string]*template.Template
	assets   string
	currency string
	logger   logging.Logger
}

func New(d Deps) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore([]byte(d.SessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		site:     d.Site,
		users:    d.Users,
		payments: d.Payments,
		uploader: d.Uploader,
		ticker:   d.Ticker,
		profile:  d.Profile,
		store:    store,
		pages:    pages,
		assets:   d.AssetsDir,
		currency: d.Currency,
		logger:   d.Logger.With("module", "web"),
	}, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(filepath.Join(s.assets, media.LocalUploadsDir)))))

	r.Get("/", s.home)
	r.Post("/contact", s.contact)
	r.Post("/certificates/request", s.requestCertificate)
	r.Get("/projects", s.projects)
	r.Get("/insights", s.insights)
	r.Get("/insights/feed.xml", s.feed)
	r.Get("/insights/{id}", s.insight)
	r.Post("/insights/{id}/comments", s.postComment)
	r.Get("/donate", s.donate)
	r.Get("/success", s.success)
	r.Get("/resume.pdf", s.attachment("resume.pdf", "Resume.pdf"))
	r.Get("/certificate.pdf", s.attachment("certificate.pdf", "Supporter_Certificate.pdf"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/collections/{name}", s.apiCollection)
		r.Get("/insights/{id}/comments", s.apiComments)
		r.Post("/insights/{id}/comments", s.apiPostComment)
		r.Post("/messages", s.apiMessage)
		r.Get("/ticker", s.apiTicker)
		r.Post("/razorpay", s.apiCreateOrder)
		r.Post("/razorpay/webhook", s.apiWebhook)
		r.Post("/payments/verify", s.apiVerifyPayment)
	})

	r.Get("/admin", s.adminLoginPage)
	r.Post("/admin", s.adminLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/admin/dashboard", s.dashboard)
		r.Post("/admin/projects", s.saveProject)
		r.Post("/admin/blogs", s.saveBlogPost)
		r.Post("/admin/achievements", s.addAchievement)
		r.Post("/admin/roadmap", s.addRoadmapGoal)
		r.Post("/admin/media", s.uploadMedia)
		r.Post("/admin/{collection}/{id}/delete", s.deleteItem)
		r.Post("/admin/logout", s.adminLogout)
	})

	r.NotFound(s.notFound)
	return r
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"ago": timeAgo,
}

var pageNames = []string{
	"home", "projects", "insights", "insight", "donate", "success",
	"notfound", "admin_login", "dashboard",
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
