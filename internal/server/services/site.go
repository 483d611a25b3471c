package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

// SiteService exposes the typed content operations used by the public site
// and the admin panel.
type SiteService struct {
	content *ContentService
	now     func() time.Time
}

func NewSiteService(c *ContentService) *SiteService {
	return &SiteService{content: c, now: time.Now}
}

// Content returns the underlying untyped service.
func (s *SiteService) Content() *ContentService {
	return s.content
}

// SaveProject creates a project when id is empty and updates project id
// otherwise. It returns the id of the stored project.
func (s *SiteService) SaveProject(ctx context.Context, id string, p content.Project) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	fields := p.Fields()
	if id != "" {
		return id, s.content.Update(ctx, content.Projects, id, fields)
	}
	fields["createdAt"] = models.ServerTimestamp
	return s.content.Create(ctx, content.Projects, fields)
}

// SaveBlogPost stores a blog post, recomputing its read time. The date is
// set on create and kept on update.
func (s *SiteService) SaveBlogPost(ctx context.Context, id string, b content.BlogPost) (string, error) {
	b.Normalize()
	if err := b.Validate(); err != nil {
		return "", err
	}
	fields := b.Fields()
	if id != "" {
		return id, s.content.Update(ctx, content.Blogs, id, fields)
	}
	fields["date"] = models.ServerTimestamp
	return s.content.Create(ctx, content.Blogs, fields)
}

func (s *SiteService) AddAchievement(ctx context.Context, a content.Achievement) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	return s.content.Create(ctx, content.Achievements, a.Fields())
}

func (s *SiteService) AddRoadmapGoal(ctx context.Context, g content.RoadmapGoal) (string, error) {
	g.Normalize()
	if err := g.Validate(); err != nil {
		return "", err
	}
	return s.content.Create(ctx, content.Roadmap, g.Fields())
}

// SubmitMessage stores a contact form submission.
func (s *SiteService) SubmitMessage(ctx context.Context, m content.Message) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	return s.content.Create(ctx, content.Messages, m.Fields())
}

// RequestCertificate stores a visitor's certificate request.
func (s *SiteService) RequestCertificate(ctx context.Context, r content.CertRequest) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return s.content.Create(ctx, content.CertRequests, r.Fields())
}

// PostComment adds c to the reader's thread as pending, writes it and then
// confirms it with the stored copy. On failure the pending entry is rolled
// back and returned in the failed state along with the error.
func (s *SiteService) PostComment(ctx context.Context, thread *content.Thread, c content.Comment) (content.ThreadEntry, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return content.ThreadEntry{}, err
	}

	key := thread.AddPending(c, s.now())

	stored, err := s.storeComment(ctx, c)
	if err != nil {
		failed, ferr := thread.Fail(key, err)
		if ferr != nil {
			return content.ThreadEntry{}, ferr
		}
		return failed, err
	}
	return thread.Confirm(key, stored)
}

func (s *SiteService) storeComment(ctx context.Context, c content.Comment) (content.Comment, error) {
	id, err := s.content.Create(ctx, content.Comments, c.Fields())
	if err != nil {
		return content.Comment{}, err
	}
	d, err := s.content.Get(ctx, content.Comments, id)
	if err != nil {
		return content.Comment{}, fmt.Errorf("read back comment: %w", err)
	}
	return content.CommentFrom(*d), nil
}

// Comments returns the comments of a blog post, newest first.
func (s *SiteService) Comments(ctx context.Context, blogID string) ([]content.Comment, error) {
	docs, err := s.content.FindBy(ctx, content.Comments, "blogId", blogID, content.DefaultOrder(content.Comments))
	if err != nil {
		return nil, err
	}
	return content.Map(docs, content.CommentFrom), nil
}

// BlogPosts returns all posts sorted in memory by order. The listing
// itself comes from the cache, so switching order does not hit the store.
func (s *SiteService) BlogPosts(ctx context.Context, order string) ([]content.BlogPost, error) {
	docs, err := s.content.List(ctx, content.Blogs, models.Order{})
	if err != nil {
		return nil, err
	}
	return content.SortBlogPosts(content.Map(docs, content.BlogPostFrom), order), nil
}

func (s *SiteService) BlogPost(ctx context.Context, id string) (content.BlogPost, error) {
	d, err := s.content.Get(ctx, content.Blogs, id)
	if err != nil {
		return content.BlogPost{}, err
	}
	return content.BlogPostFrom(*d), nil
}

func (s *SiteService) Projects(ctx context.Context) ([]content.Project, error) {
	docs, err := s.content.List(ctx, content.Projects, models.Order{})
	if err != nil {
		return nil, err
	}
	return content.Map(docs, content.ProjectFrom), nil
}

func (s *SiteService) Project(ctx context.Context, id string) (content.Project, error) {
	d, err := s.content.Get(ctx, content.Projects, id)
	if err != nil {
		return content.Project{}, err
	}
	return content.ProjectFrom(*d), nil
}

// Delete removes any document; the admin panel confirms before calling it.
func (s *SiteService) Delete(ctx context.Context, collection, id string) error {
	return s.content.Delete(ctx, collection, id)
}

// RecordDonation stores a verified donation once per payment id. It reports
// whether a new record was written.
func (s *SiteService) RecordDonation(ctx context.Context, d content.Donation) (string, bool, error) {
	existing, err := s.content.FindBy(ctx, content.Donations, "paymentId", d.PaymentID, models.Order{})
	if err != nil {
		return "", false, err
	}
	if len(existing) > 0 {
		return existing[0].ID, false, nil
	}
	id, err := s.content.Create(ctx, content.Donations, d.Fields())
	if err != nil {
		// a concurrent writer may have won the unique paymentId index
		s.content.invalidate(content.Donations)
		if again, ferr := s.content.FindBy(ctx, content.Donations, "paymentId", d.PaymentID, models.Order{}); ferr == nil && len(again) > 0 {
			return again[0].ID, false, nil
		}
		return "", false, err
	}
	return id, true, nil
}
