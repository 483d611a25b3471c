package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/contentapi"
	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/models"
	"github.com/dmitrijs2005/folio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/folio/internal/server/services"
)

// ---- fakes ----

type fakeUser struct {
	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	verifyID  string
	verifyErr error
}

func (f *fakeUser) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUser) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUser) VerifyAccessToken(token string) (string, error) {
	return f.verifyID, f.verifyErr
}

type fakeContent struct {
	docs      []models.Document
	listOrder models.Order
	err       error

	created map[string]any
	updated map[string]any
	deleted string
}

func (f *fakeContent) List(ctx context.Context, collection string, order models.Order) ([]models.Document, error) {
	f.listOrder = order
	return f.docs, f.err
}
func (f *fakeContent) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, common.ErrorNotFound
}
func (f *fakeContent) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	f.created = fields
	return "new-id", f.err
}
func (f *fakeContent) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	f.updated = fields
	return f.err
}
func (f *fakeContent) Delete(ctx context.Context, collection, id string) error {
	f.deleted = id
	return f.err
}

// ---- helpers ----

func newServer(u userSvc, c contentSvc) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), u, c)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeContent{})
	resp, err := s.Ping(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if got := contentapi.String(resp, contentapi.FieldStatus); got != contentapi.StatusOK {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestLogin(t *testing.T) {
	u := &fakeUser{loginResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	s := newServer(u, &fakeContent{})

	resp, err := s.Login(context.Background(), contentapi.Strings(map[string]string{"email": "e", "password": "p"}))
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if contentapi.String(resp, contentapi.FieldAccessToken) != "a" || contentapi.String(resp, contentapi.FieldRefreshToken) != "r" {
		t.Fatalf("unexpected tokens: %v", resp)
	}

	u.loginErr = common.ErrorUnauthorized
	_, err = s.Login(context.Background(), contentapi.Strings(nil))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", status.Code(err))
	}

	u.loginErr = common.ErrorInternal
	_, err = s.Login(context.Background(), contentapi.Strings(nil))
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
}

func TestRefreshToken(t *testing.T) {
	u := &fakeUser{refreshResp: &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	s := newServer(u, &fakeContent{})
	resp, err := s.RefreshToken(context.Background(), contentapi.Strings(map[string]string{"refresh_token": "r"}))
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if contentapi.String(resp, contentapi.FieldAccessToken) != "a2" {
		t.Fatalf("unexpected tokens: %v", resp)
	}

	u.refreshErr = common.ErrRefreshTokenExpired
	_, err = s.RefreshToken(context.Background(), contentapi.Strings(nil))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", status.Code(err))
	}

	u.refreshErr = errors.New("oops")
	_, err = s.RefreshToken(context.Background(), contentapi.Strings(nil))
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "internal error" {
		t.Fatalf("internal detail leaked: %q", status.Convert(err).Message())
	}
}

func TestList_FlattensDocuments(t *testing.T) {
	c := &fakeContent{docs: []models.Document{
		{ID: "1", Collection: "projects", Fields: map[string]any{"title": "Ledger"}},
		{ID: "2", Collection: "projects"},
	}}
	s := newServer(&fakeUser{}, c)

	resp, err := s.List(context.Background(), contentapi.Strings(map[string]string{
		"collection": "projects", "order_by": "title", "dir": "desc",
	}))
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if c.listOrder != models.By("title", models.Desc) {
		t.Fatalf("unexpected order: %+v", c.listOrder)
	}
	docs := resp.GetFields()[contentapi.FieldDocuments].GetListValue().GetValues()
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}
	first := docs[0].GetStructValue()
	if contentapi.String(first, "id") != "1" || contentapi.String(first, "title") != "Ledger" {
		t.Fatalf("unexpected document: %v", first)
	}
	if contentapi.String(docs[1].GetStructValue(), "createdAt") == "" {
		t.Fatal("createdAt missing")
	}
}

func TestList_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorUnknownCollection, codes.NotFound},
		{common.ErrorValidation, codes.InvalidArgument},
		{errors.New("db down"), codes.Internal},
	}
	for _, tt := range tests {
		s := newServer(&fakeUser{}, &fakeContent{err: tt.err})
		_, err := s.List(context.Background(), contentapi.Strings(map[string]string{"collection": "x"}))
		if status.Code(err) != tt.want {
			t.Fatalf("%v: want %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestGet(t *testing.T) {
	c := &fakeContent{docs: []models.Document{{ID: "1", Fields: map[string]any{"title": "T"}}}}
	s := newServer(&fakeUser{}, c)

	resp, err := s.Get(context.Background(), contentapi.Strings(map[string]string{"collection": "blogs", "id": "1"}))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	doc := resp.GetFields()[contentapi.FieldDocument].GetStructValue()
	if contentapi.String(doc, "title") != "T" {
		t.Fatalf("unexpected document: %v", doc)
	}

	_, err = s.Get(context.Background(), contentapi.Strings(map[string]string{"collection": "blogs", "id": "2"}))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", status.Code(err))
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	c := &fakeContent{}
	s := newServer(&fakeUser{}, c)
	ctx := context.Background()

	_, err := s.Create(ctx, mustStruct(t, map[string]any{"collection": "achievements"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument without fields, got %v", status.Code(err))
	}

	req := mustStruct(t, map[string]any{
		"collection": "achievements",
		"fields":     map[string]any{"title": "CA", "issuer": "ICAI", "year": "2024"},
	})
	resp, err := s.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if contentapi.String(resp, "id") != "new-id" || c.created["issuer"] != "ICAI" {
		t.Fatalf("unexpected create: %v %v", resp, c.created)
	}

	_, err = s.Update(ctx, mustStruct(t, map[string]any{
		"collection": "achievements", "id": "new-id", "fields": map[string]any{"year": "2025"},
	}))
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if c.updated["year"] != "2025" {
		t.Fatalf("unexpected update: %v", c.updated)
	}

	if _, err := s.Delete(ctx, contentapi.Strings(map[string]string{"collection": "achievements", "id": "new-id"})); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if c.deleted != "new-id" {
		t.Fatalf("unexpected delete: %q", c.deleted)
	}

	c.err = common.ErrorInvalidReference
	_, err = s.Create(ctx, req)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", status.Code(err))
	}
}

func newStoreServer(t *testing.T) (*GRPCServer, *services.ContentService) {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	rm := repomanager.New(dbx.DialectSQLite)
	if err := rm.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	cs, err := services.NewContentService(db, rm, &config.Config{CacheSize: 16, Workers: 2}, logging.Discard())
	if err != nil {
		t.Fatalf("content service: %v", err)
	}
	t.Cleanup(cs.Close)
	return newServer(&fakeUser{}, cs), cs
}

func TestCreateUpdate_BlogDerivedFields(t *testing.T) {
	s, cs := newStoreServer(t)
	ctx := context.Background()

	resp, err := s.Create(ctx, mustStruct(t, map[string]any{
		"collection": "blogs",
		"fields":     map[string]any{"title": "Audit notes", "content": "short body"},
	}))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	id := contentapi.String(resp, "id")

	d, err := cs.Get(ctx, content.Blogs, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	created := content.BlogPostFrom(*d)
	if created.ReadTime != "1 min read" || created.Date.IsZero() {
		t.Fatalf("create: readTime=%q date=%v", created.ReadTime, created.Date)
	}

	_, err = s.Update(ctx, mustStruct(t, map[string]any{
		"collection": "blogs", "id": id,
		"fields": map[string]any{"content": strings.Repeat("word ", 450)},
	}))
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	d, _ = cs.Get(ctx, content.Blogs, id)
	updated := content.BlogPostFrom(*d)
	if updated.ReadTime != "3 min read" {
		t.Fatalf("update readTime = %q, want 3 min read", updated.ReadTime)
	}
	if !updated.Date.Equal(created.Date) {
		t.Fatalf("update changed date: %v -> %v", created.Date, updated.Date)
	}
}

func TestCreate_VisitorDocumentsStamped(t *testing.T) {
	s, cs := newStoreServer(t)
	ctx := context.Background()

	blogID, err := cs.Create(ctx, content.Blogs, map[string]any{"title": "T", "content": "c"})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	tests := []struct {
		collection string
		fields     map[string]any
	}{
		{content.Comments, map[string]any{"blogId": blogID, "text": "hi"}},
		{content.Messages, map[string]any{"name": "A", "email": "a@b.c", "message": "m"}},
		{content.CertRequests, map[string]any{"achievement": "CA", "contact": "a@b.c"}},
		{content.Projects, map[string]any{"title": "P", "desc": "d", "tech": "Go"}},
	}
	for _, tt := range tests {
		resp, err := s.Create(ctx, mustStruct(t, map[string]any{"collection": tt.collection, "fields": tt.fields}))
		if err != nil {
			t.Fatalf("%s: Create error: %v", tt.collection, err)
		}
		d, err := cs.Get(ctx, tt.collection, contentapi.String(resp, "id"))
		if err != nil {
			t.Fatalf("%s: Get: %v", tt.collection, err)
		}

		field := "timestamp"
		if tt.collection == content.Projects {
			field = "createdAt"
		}
		if _, ok := common.ParseTimestamp(d.String(field)); !ok {
			t.Fatalf("%s: %s not stamped: %v", tt.collection, field, d.Fields)
		}
		if tt.collection == content.Comments && d.String("name") != content.AnonymousCommenter {
			t.Fatalf("comment name = %q", d.String("name"))
		}
	}
}
