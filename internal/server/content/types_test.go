package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

func TestProject_ValidateAndFields(t *testing.T) {
	p := Project{Title: "Ledger", Tech: "Go"}
	err := p.Validate()
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "desc")

	p.Desc = "Books"
	p.ImageURL = "  https://img.example/x.png?raw=1 "
	require.NoError(t, p.Validate())
	assert.Equal(t, "  https://img.example/x.png?raw=1 ", p.Fields()["imageUrl"], "pasted url is stored verbatim")
}

func TestBlogPost_NormalizeValidate(t *testing.T) {
	b := BlogPost{Title: "T", Content: "one two three"}
	b.Normalize()
	assert.Equal(t, "Finance", b.Category)
	require.NoError(t, b.Validate())
	assert.Equal(t, "1 min read", b.Fields()["readTime"])

	b.Category = "Gossip"
	assert.ErrorIs(t, b.Validate(), common.ErrorValidation)
}

func TestRoadmapGoal_DefaultStatus(t *testing.T) {
	g := RoadmapGoal{Title: "CA Final", Org: "ICAI", Year: "2027"}
	g.Normalize()
	assert.Equal(t, "future", g.Status)
	require.NoError(t, g.Validate())

	g.Status = "someday"
	assert.ErrorIs(t, g.Validate(), common.ErrorValidation)
}

func TestComment_DefaultName(t *testing.T) {
	c := Comment{BlogID: "b1", Name: "   ", Text: "hi"}
	c.Normalize()
	assert.Equal(t, "Anonymous", c.Name)
	assert.Equal(t, models.ServerTimestamp, c.Fields()["timestamp"])

	assert.ErrorIs(t, Comment{Text: "orphan"}.Validate(), common.ErrorValidation)
}

func TestVisitorSubmissionsRequireFields(t *testing.T) {
	assert.ErrorIs(t, Message{Name: "Ann", Email: "ann@x.com"}.Validate(), common.ErrorValidation)
	assert.NoError(t, Message{Name: "Ann", Email: "ann@x.com", Message: "Hi"}.Validate())
	assert.ErrorIs(t, CertRequest{Achievement: "CPA"}.Validate(), common.ErrorValidation)
	assert.ErrorIs(t, Achievement{Title: "CPA", Issuer: "AICPA"}.Validate(), common.ErrorValidation)
}

func TestFromDocument(t *testing.T) {
	d := models.Document{ID: "b1", Fields: map[string]any{
		"title":    "Tax 101",
		"content":  "body",
		"category": "Audit",
		"date":     "2025-03-01T04:30:00.000000Z",
		"readTime": "1 min read",
	}}
	b := BlogPostFrom(d)
	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "Audit", b.Category)
	assert.Equal(t, time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC), b.Date)

	don := DonationFrom(models.Document{ID: "d1", Fields: map[string]any{"amount": 499.0, "paymentId": "pay_1"}})
	assert.Equal(t, 499.0, don.Amount)
	assert.Equal(t, "pay_1", don.PaymentID)

	projects := Map([]models.Document{{ID: "p1"}, {ID: "p2"}}, ProjectFrom)
	assert.Len(t, projects, 2)
	assert.Equal(t, "p2", projects[1].ID)
}

func TestCollections(t *testing.T) {
	assert.True(t, Known("cert_requests"))
	assert.False(t, Known("users"))
	assert.True(t, Public("blogs"))
	assert.False(t, Public("messages"))
	assert.False(t, Public("donations"))
	assert.Equal(t, models.By("date", models.Desc), DefaultOrder("blogs"))
	assert.Equal(t, models.Order{}, DefaultOrder("projects"))
	assert.Len(t, AdminCollections, 7)
}
