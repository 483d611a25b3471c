package web

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/content"
)

const latestPostsOnHome = 3

// section is one independently loaded part of a page.
type section[T any] struct {
	Items []T
	Err   bool
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := s.site.Content().LoadMany(ctx, content.Achievements, content.Roadmap, content.Projects, content.Blogs)

	data := s.view("Portfolio")

	ach := res[content.Achievements]
	data["Achievements"] = section[content.Achievement]{Items: content.Map(ach.Docs, content.AchievementFrom), Err: ach.Err != nil}
	road := res[content.Roadmap]
	data["Roadmap"] = section[content.RoadmapGoal]{Items: content.Map(road.Docs, content.RoadmapGoalFrom), Err: road.Err != nil}
	proj := res[content.Projects]
	data["Projects"] = section[content.Project]{Items: content.Map(proj.Docs, content.ProjectFrom), Err: proj.Err != nil}

	blogs := res[content.Blogs]
	posts := content.SortBlogPosts(content.Map(blogs.Docs, content.BlogPostFrom), content.SortLatest)
	if len(posts) > latestPostsOnHome {
		posts = posts[:latestPostsOnHome]
	}
	data["Posts"] = section[content.BlogPost]{Items: posts, Err: blogs.Err != nil}

	fl := s.takeFlash(w, r, "contact_status", "contact_name", "contact_email", "contact_message", "cert_status")
	status := fl["contact_status"]
	if status == "" {
		status = "idle"
	}
	data["ContactStatus"] = status
	data["ContactForm"] = content.Message{Name: fl["contact_name"], Email: fl["contact_email"], Message: fl["contact_message"]}
	data["CertStatus"] = fl["cert_status"]

	s.render(w, r, http.StatusOK, "home", data)
}

// contact stores a contact form submission. On success the form comes back
// empty; on error the typed values are kept.
func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	m := content.Message{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}
	if _, err := s.site.SubmitMessage(r.Context(), m); err != nil {
		s.logger.Warn(r.Context(), "contact submission failed", "error", err)
		s.setFlash(w, r, map[string]string{
			"contact_status":  "error",
			"contact_name":    m.Name,
			"contact_email":   m.Email,
			"contact_message": m.Message,
		})
	} else {
		s.setFlash(w, r, map[string]string{"contact_status": "success"})
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

func (s *Server) requestCertificate(w http.ResponseWriter, r *http.Request) {
	req := content.CertRequest{
		Achievement: r.FormValue("achievement"),
		Contact:     r.FormValue("contact"),
	}
	status := "success"
	if _, err := s.site.RequestCertificate(r.Context(), req); err != nil {
		s.logger.Warn(r.Context(), "certificate request failed", "error", err)
		status = "error"
	}
	s.setFlash(w, r, map[string]string{"cert_status": status})
	http.Redirect(w, r, "/#achievements", http.StatusSeeOther)
}

func (s *Server) projects(w http.ResponseWriter, r *http.Request) {
	data := s.view("Projects")
	items, err := s.site.Projects(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "projects load failed", "error", err)
	}
	data["Projects"] = section[content.Project]{Items: items, Err: err != nil}
	s.render(w, r, http.StatusOK, "projects", data)
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	order := content.ParseSort(r.URL.Query().Get("sort"))
	data := s.view("Insights")
	posts, err := s.site.BlogPosts(r.Context(), order)
	if err != nil {
		s.logger.Error(r.Context(), "blog load failed", "error", err)
	}
	data["Posts"] = section[content.BlogPost]{Items: posts, Err: err != nil}
	data["Sort"] = order
	s.render(w, r, http.StatusOK, "insights", data)
}

func (s *Server) insight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	post, err := s.site.BlogPost(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		s.notFound(w, r)
		return
	}
	data := s.view(post.Title)
	if err != nil {
		s.logger.Error(ctx, "blog post load failed", "id", id, "error", err)
		data["Title"] = "Insights"
		data["LoadError"] = true
		s.render(w, r, http.StatusInternalServerError, "insight", data)
		return
	}
	data["Post"] = post

	comments, err := s.site.Comments(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "comments load failed", "id", id, "error", err)
	}
	data["Comments"] = section[content.ThreadEntry]{Items: content.NewThread(comments).Entries(), Err: err != nil}

	fl := s.takeFlash(w, r, "comment_status", "comment_name", "comment_text")
	data["CommentStatus"] = fl["comment_status"]
	data["CommentForm"] = content.Comment{Name: fl["comment_name"], Text: fl["comment_text"]}

	s.render(w, r, http.StatusOK, "insight", data)
}

// postComment runs a form-posted comment through the reader's thread. The
// thread is rebuilt from the store, so after the redirect the confirmed
// comment shows up at the top.
func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	stored, err := s.site.Comments(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "comments load failed", "id", id, "error", err)
	}
	thread := content.NewThread(stored)

	c := content.Comment{BlogID: id, Name: r.FormValue("name"), Text: r.FormValue("text")}
	if _, err := s.site.PostComment(ctx, thread, c); err != nil {
		s.logger.Warn(ctx, "comment failed", "blog", id, "error", err)
		s.setFlash(w, r, map[string]string{
			"comment_status": "error",
			"comment_name":   c.Name,
			"comment_text":   c.Text,
		})
	} else {
		s.setFlash(w, r, map[string]string{"comment_status": "success", "comment_name": c.Name})
	}
	http.Redirect(w, r, "/insights/"+id+"#comments", http.StatusSeeOther)
}

func (s *Server) donate(w http.ResponseWriter, r *http.Request) {
	data := s.view("Support")
	data["KeyID"] = s.payments.KeyID()
	data["Currency"] = s.currency
	s.render(w, r, http.StatusOK, "donate", data)
}

func (s *Server) success(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "success", s.view("Thank You"))
}

// attachment serves a file from the assets directory as a download.
func (s *Server) attachment(file, downloadName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.assets, file)
		if _, err := os.Stat(path); err != nil {
			s.notFound(w, r)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
		http.ServeFile(w, r, path)
	}
}
