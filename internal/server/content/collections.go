// Package content holds the typed site content (projects, blog posts,
// roadmap, visitor submissions) and the pure rules around it: validation,
// read time, blog ordering and the optimistic comment thread.
package content

import "github.com/dmitrijs2005/folio/internal/server/models"

// Collection names, as stored.
const (
	Projects     = "projects"
	Blogs        = "blogs"
	Achievements = "achievements"
	Roadmap      = "roadmap"
	Messages     = "messages"
	Comments     = "comments"
	CertRequests = "cert_requests"
	Donations    = "donations"
)

type collectionInfo struct {
	public bool
	order  models.Order
}

var collections = map[string]collectionInfo{
	Projects:     {public: true},
	Blogs:        {public: true, order: models.By("date", models.Desc)},
	Achievements: {public: true},
	Roadmap:      {public: true},
	Comments:     {public: true, order: models.By("timestamp", models.Desc)},
	Messages:     {order: models.By("timestamp", models.Desc)},
	CertRequests: {order: models.By("timestamp", models.Desc)},
	Donations:    {order: models.By("timestamp", models.Desc)},
}

// AdminCollections are loaded by the admin dashboard, in tab order.
var AdminCollections = []string{Projects, Blogs, Messages, Achievements, Roadmap, CertRequests, Donations}

// Known reports whether name is a content collection.
func Known(name string) bool {
	_, ok := collections[name]
	return ok
}

// Public reports whether anonymous visitors may list the collection.
func Public(name string) bool {
	return collections[name].public
}

// DefaultOrder is the order a collection is listed in when the caller
// does not ask for one.
func DefaultOrder(name string) models.Order {
	return collections[name].order
}
