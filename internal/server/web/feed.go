package web

import (
	"net/http"

	"github.com/gorilla/feeds"

	"github.com/dmitrijs2005/folio/internal/server/content"
)

const feedItems = 20

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func excerpt(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "…"
}

// feed renders the newest blog posts as RSS 2.0.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.site.BlogPosts(r.Context(), content.SortLatest)
	if err != nil {
		s.logger.Error(r.Context(), "feed load failed", "error", err)
		http.Error(w, genericError, http.StatusInternalServerError)
		return
	}
	if len(posts) > feedItems {
		posts = posts[:feedItems]
	}

	base := baseURL(r)
	feed := &feeds.Feed{
		Title:       s.profile.Brand + " Insights",
		Link:        &feeds.Link{Href: base + "/insights"},
		Description: "Thoughts on Finance, Tech, and the Future.",
	}
	if len(posts) > 0 {
		feed.Created = posts[0].Date
	}
	for _, p := range posts {
		link := base + "/insights/" + p.ID
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: excerpt(p.Content, 280),
			Created:     p.Date,
		})
	}

	rf := (&feeds.Rss{Feed: feed}).RssFeed()
	for i, item := range rf.Items {
		item.Category = posts[i].Category
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feeds.WriteXML(rf, w); err != nil {
		s.logger.Error(r.Context(), "feed encode failed", "error", err)
	}
}
