package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

const (
	DefaultCategory    = "Finance"
	DefaultGoalStatus  = "future"
	AnonymousCommenter = "Anonymous"
)

var (
	Categories   = []string{"Finance", "Tech", "Audit", "General"}
	GoalStatuses = []string{"completed", "current", "future"}
)

type Project struct {
	ID        string
	Title     string
	Desc      string
	Tech      string
	Link      string
	ImageURL  string
	CreatedAt time.Time
}

type BlogPost struct {
	ID       string
	Title    string
	Content  string
	Category string
	ImageURL string
	Date     time.Time
	ReadTime string
}

type Achievement struct {
	ID     string
	Title  string
	Issuer string
	Year   string
}

type RoadmapGoal struct {
	ID     string
	Title  string
	Org    string
	Year   string
	Status string
	Desc   string
}

type Message struct {
	ID        string
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

type Comment struct {
	ID        string    `json:"id,omitempty"`
	BlogID    string    `json:"blogId"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type CertRequest struct {
	ID          string
	Achievement string
	Contact     string
	Timestamp   time.Time
}

type Donation struct {
	ID        string
	PaymentID string
	OrderID   string
	Amount    float64
	Currency  string
	Timestamp time.Time
}

func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrorValidation, strings.Join(missing, ", "))
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s", common.ErrorValidation, field, strings.Join(allowed, ", "))
}

func (p Project) Validate() error {
	return required("title", p.Title, "desc", p.Desc, "tech", p.Tech)
}

// Fields returns the editable fields. imageUrl is stored exactly as given.
func (p Project) Fields() map[string]any {
	return map[string]any{
		"title":    p.Title,
		"desc":     p.Desc,
		"tech":     p.Tech,
		"link":     p.Link,
		"imageUrl": p.ImageURL,
	}
}

// Normalize fills defaults for the optional enum fields.
func (b *BlogPost) Normalize() {
	if b.Category == "" {
		b.Category = DefaultCategory
	}
}

func (b BlogPost) Validate() error {
	if err := required("title", b.Title, "content", b.Content); err != nil {
		return err
	}
	return oneOf("category", b.Category, Categories)
}

// Fields returns the editable fields with readTime derived from Content.
func (b BlogPost) Fields() map[string]any {
	return map[string]any{
		"title":    b.Title,
		"content":  b.Content,
		"category": b.Category,
		"imageUrl": b.ImageURL,
		"readTime": ReadTime(b.Content),
	}
}

func (a Achievement) Validate() error {
	return required("title", a.Title, "issuer", a.Issuer, "year", a.Year)
}

func (a Achievement) Fields() map[string]any {
	return map[string]any{"title": a.Title, "issuer": a.Issuer, "year": a.Year}
}

func (g *RoadmapGoal) Normalize() {
	if g.Status == "" {
		g.Status = DefaultGoalStatus
	}
}

func (g RoadmapGoal) Validate() error {
	if err := required("title", g.Title, "org", g.Org, "year", g.Year); err != nil {
		return err
	}
	return oneOf("status", g.Status, GoalStatuses)
}

func (g RoadmapGoal) Fields() map[string]any {
	return map[string]any{"title": g.Title, "org": g.Org, "year": g.Year, "status": g.Status, "desc": g.Desc}
}

func (m Message) Validate() error {
	return required("name", m.Name, "email", m.Email, "message", m.Message)
}

func (m Message) Fields() map[string]any {
	return map[string]any{"name": m.Name, "email": m.Email, "message": m.Message, "timestamp": models.ServerTimestamp}
}

func (c *Comment) Normalize() {
	if strings.TrimSpace(c.Name) == "" {
		c.Name = AnonymousCommenter
	}
}

func (c Comment) Validate() error {
	return required("blogId", c.BlogID, "text", c.Text)
}

func (c Comment) Fields() map[string]any {
	return map[string]any{"blogId": c.BlogID, "name": c.Name, "text": c.Text, "timestamp": models.ServerTimestamp}
}

func (r CertRequest) Validate() error {
	return required("achievement", r.Achievement, "contact", r.Contact)
}

func (r CertRequest) Fields() map[string]any {
	return map[string]any{"achievement": r.Achievement, "contact": r.Contact, "timestamp": models.ServerTimestamp}
}

func (d Donation) Fields() map[string]any {
	return map[string]any{
		"paymentId": d.PaymentID,
		"orderId":   d.OrderID,
		"amount":    d.Amount,
		"currency":  d.Currency,
		"timestamp": models.ServerTimestamp,
	}
}

func timeField(d models.Document, field string) time.Time {
	t, _ := common.ParseTimestamp(d.String(field))
	return t
}

func floatField(d models.Document, field string) float64 {
	f, _ := d.Fields[field].(float64)
	return f
}

func ProjectFrom(d models.Document) Project {
	return Project{
		ID: d.ID, Title: d.String("title"), Desc: d.String("desc"), Tech: d.String("tech"),
		Link: d.String("link"), ImageURL: d.String("imageUrl"), CreatedAt: timeField(d, "createdAt"),
	}
}

func BlogPostFrom(d models.Document) BlogPost {
	return BlogPost{
		ID: d.ID, Title: d.String("title"), Content: d.String("content"), Category: d.String("category"),
		ImageURL: d.String("imageUrl"), Date: timeField(d, "date"), ReadTime: d.String("readTime"),
	}
}

func AchievementFrom(d models.Document) Achievement {
	return Achievement{ID: d.ID, Title: d.String("title"), Issuer: d.String("issuer"), Year: d.String("year")}
}

func RoadmapGoalFrom(d models.Document) RoadmapGoal {
	return RoadmapGoal{
		ID: d.ID, Title: d.String("title"), Org: d.String("org"), Year: d.String("year"),
		Status: d.String("status"), Desc: d.String("desc"),
	}
}

func MessageFrom(d models.Document) Message {
	return Message{
		ID: d.ID, Name: d.String("name"), Email: d.String("email"), Message: d.String("message"),
		Timestamp: timeField(d, "timestamp"),
	}
}

func CommentFrom(d models.Document) Comment {
	return Comment{
		ID: d.ID, BlogID: d.String("blogId"), Name: d.String("name"), Text: d.String("text"),
		Timestamp: timeField(d, "timestamp"),
	}
}

func CertRequestFrom(d models.Document) CertRequest {
	return CertRequest{
		ID: d.ID, Achievement: d.String("achievement"), Contact: d.String("contact"),
		Timestamp: timeField(d, "timestamp"),
	}
}

func DonationFrom(d models.Document) Donation {
	return Donation{
		ID: d.ID, PaymentID: d.String("paymentId"), OrderID: d.String("orderId"),
		Amount: floatField(d, "amount"), Currency: d.String("currency"), Timestamp: timeField(d, "timestamp"),
	}
}

// Map converts every document with from.
func Map[T any](docs []models.Document, from func(models.Document) T) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, from(d))
	}
	return out
}
