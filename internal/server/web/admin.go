package web

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/media"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

const (
	loginFailedMessage = "Invalid Email or Password"
	maxUploadMemory    = media.MaxImageSize + 1<<20
)

func (s *Server) adminLoginPage(w http.ResponseWriter, r *http.Request) {
	sess := s.adminSession(r)
	if access, _ := sess.Values[sessAccess].(string); access != "" {
		if _, err := s.users.VerifyAccessToken(access); err == nil {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			return
		}
	}
	data := s.view("Admin")
	data["Error"] = s.takeFlash(w, r, "login_error")["login_error"]
	s.render(w, r, http.StatusOK, "admin_login", data)
}

// adminLogin never tells the visitor which part of the credentials was wrong.
func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	pair, err := s.users.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Error(r.Context(), "login failed", "error", err)
		}
		s.setFlash(w, r, map[string]string{"login_error": loginFailedMessage})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	sess := s.adminSession(r)
	sess.Values[sessAccess] = pair.AccessToken
	sess.Values[sessRefresh] = pair.RefreshToken
	if err := sess.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "session save failed", "error", err)
		s.setFlash(w, r, map[string]string{"login_error": loginFailedMessage})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (s *Server) adminLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.adminSession(r)
	if refresh, _ := sess.Values[sessRefresh].(string); refresh != "" {
		if err := s.users.Logout(r.Context(), refresh); err != nil {
			s.logger.Warn(r.Context(), "refresh token revoke failed", "error", err)
		}
	}
	s.clearAdminSession(w, r)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// tabView is one collection of the dashboard.
type tabView struct {
	Name  string
	Docs  []models.Document
	Err   bool
	Count int
}

// dashboard loads every admin collection before rendering; a collection
// that fails shows its own notice.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab := r.URL.Query().Get("tab")
	if !slices.Contains(content.AdminCollections, tab) {
		tab = content.Projects
	}

	res := s.site.Content().LoadMany(ctx, content.AdminCollections...)
	tabs := make([]tabView, 0, len(content.AdminCollections))
	for _, name := range content.AdminCollections {
		lr := res[name]
		tabs = append(tabs, tabView{Name: name, Docs: lr.Docs, Err: lr.Err != nil, Count: len(lr.Docs)})
	}

	data := s.view("Dashboard")
	data["Tab"] = tab
	data["Tabs"] = tabs
	data["Categories"] = content.Categories
	data["GoalStatuses"] = content.GoalStatuses

	cur := res[tab]
	data["Active"] = tabView{Name: tab, Docs: cur.Docs, Err: cur.Err != nil, Count: len(cur.Docs)}
	data["Projects"] = content.Map(res[content.Projects].Docs, content.ProjectFrom)
	data["Blogs"] = content.Map(res[content.Blogs].Docs, content.BlogPostFrom)
	data["Messages"] = content.Map(res[content.Messages].Docs, content.MessageFrom)
	data["Achievements"] = content.Map(res[content.Achievements].Docs, content.AchievementFrom)
	data["Roadmap"] = content.Map(res[content.Roadmap].Docs, content.RoadmapGoalFrom)
	data["CertRequests"] = content.Map(res[content.CertRequests].Docs, content.CertRequestFrom)
	data["Donations"] = content.Map(res[content.Donations].Docs, content.DonationFrom)

	editID := r.URL.Query().Get("edit")
	data["EditID"] = ""
	data["ProjectForm"] = content.Project{}
	data["BlogForm"] = content.BlogPost{Category: content.DefaultCategory}
	if editID != "" {
		if i := slices.IndexFunc(cur.Docs, func(d models.Document) bool { return d.ID == editID }); i >= 0 {
			data["EditID"] = editID
			switch tab {
			case content.Projects:
				data["ProjectForm"] = content.ProjectFrom(cur.Docs[i])
			case content.Blogs:
				data["BlogForm"] = content.BlogPostFrom(cur.Docs[i])
			}
		}
	}

	fl := s.takeFlash(w, r, "admin_notice", "admin_error")
	data["Notice"] = fl["admin_notice"]
	data["Error"] = fl["admin_error"]

	s.render(w, r, http.StatusOK, "dashboard", data)
}

func dashboardURL(tab string) string {
	return "/admin/dashboard?tab=" + tab
}

// formImage returns the uploaded image of a multipart form, or nil.
func formImage(r *http.Request) (*media.File, func(), error) {
	f, h, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &media.File{
		Name:        h.Filename,
		Size:        h.Size,
		ContentType: h.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// imageFor resolves the imageUrl for a save. An upload failure is reported
// through the flash and the current URL is kept.
func (s *Server) imageFor(r *http.Request, current string) (string, string) {
	img, closeImg, err := formImage(r)
	defer closeImg()
	if err != nil {
		return current, media.UploadFailedMessage
	}
	url, err := media.ResolveImageURL(r.Context(), s.uploader, current, r.FormValue("imageUrl"), img)
	if err != nil {
		s.logger.Warn(r.Context(), "image upload failed", "error", err)
		if errors.Is(err, common.ErrorValidation) {
			return url, err.Error()
		}
		return url, media.UploadFailedMessage
	}
	return url, ""
}

func (s *Server) finishSave(w http.ResponseWriter, r *http.Request, tab, uploadErr string, err error) {
	flash := map[string]string{}
	switch {
	case err != nil:
		s.logger.Warn(r.Context(), "admin save failed", "admin", adminID(r), "collection", tab, "error", err)
		flash["admin_error"] = userMessage(err)
	case uploadErr != "":
		flash["admin_error"] = uploadErr
	default:
		flash["admin_notice"] = "Saved."
	}
	s.setFlash(w, r, flash)
	http.Redirect(w, r, dashboardURL(tab), http.StatusSeeOther)
}

func (s *Server) saveProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_ = r.ParseMultipartForm(maxUploadMemory)
	id := r.FormValue("id")

	current := ""
	if id != "" {
		p, err := s.site.Project(ctx, id)
		if err != nil {
			s.finishSave(w, r, content.Projects, "", err)
			return
		}
		current = p.ImageURL
	}
	imageURL, uploadErr := s.imageFor(r, current)

	_, err := s.site.SaveProject(ctx, id, content.Project{
		Title:    r.FormValue("title"),
		Desc:     r.FormValue("desc"),
		Tech:     r.FormValue("tech"),
		Link:     r.FormValue("link"),
		ImageURL: imageURL,
	})
	s.finishSave(w, r, content.Projects, uploadErr, err)
}

func (s *Server) saveBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_ = r.ParseMultipartForm(maxUploadMemory)
	id := r.FormValue("id")

	current := ""
	if id != "" {
		b, err := s.site.BlogPost(ctx, id)
		if err != nil {
			s.finishSave(w, r, content.Blogs, "", err)
			return
		}
		current = b.ImageURL
	}
	imageURL, uploadErr := s.imageFor(r, current)

	_, err := s.site.SaveBlogPost(ctx, id, content.BlogPost{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
		ImageURL: imageURL,
	})
	s.finishSave(w, r, content.Blogs, uploadErr, err)
}

func (s *Server) addAchievement(w http.ResponseWriter, r *http.Request) {
	_, err := s.site.AddAchievement(r.Context(), content.Achievement{
		Title:  r.FormValue("title"),
		Issuer: r.FormValue("issuer"),
		Year:   r.FormValue("year"),
	})
	s.finishSave(w, r, content.Achievements, "", err)
}

func (s *Server) addRoadmapGoal(w http.ResponseWriter, r *http.Request) {
	_, err := s.site.AddRoadmapGoal(r.Context(), content.RoadmapGoal{
		Title:  r.FormValue("title"),
		Org:    r.FormValue("org"),
		Year:   r.FormValue("year"),
		Status: r.FormValue("status"),
		Desc:   r.FormValue("desc"),
	})
	s.finishSave(w, r, content.Roadmap, "", err)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	tab := collection
	if !slices.Contains(content.AdminCollections, tab) {
		tab = content.Projects
	}
	flash := map[string]string{"admin_notice": "Deleted."}
	if err := s.site.Delete(r.Context(), collection, id); err != nil {
		s.logger.Warn(r.Context(), "admin delete failed", "admin", adminID(r), "collection", collection, "id", id, "error", err)
		flash = map[string]string{"admin_error": userMessage(err)}
	} else {
		s.logger.Info(r.Context(), "admin deleted item", "admin", adminID(r), "collection", collection, "id", id)
	}
	s.setFlash(w, r, flash)
	http.Redirect(w, r, dashboardURL(tab), http.StatusSeeOther)
}

// uploadMedia backs the in-page image upload; the page copies the returned
// URL into the form.
func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	img, closeImg, err := formImage(r)
	defer closeImg()
	if err != nil || img == nil {
		writeJSONError(w, http.StatusBadRequest, "no file")
		return
	}
	url, err := media.ResolveImageURL(r.Context(), s.uploader, "", "", img)
	if err != nil {
		s.logger.Warn(r.Context(), "media upload failed", "error", err)
		if errors.Is(err, common.ErrorValidation) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, media.UploadFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
