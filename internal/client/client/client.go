package client

import "context"

// Document is one content record as returned by the API: its fields plus
// "id" and "createdAt".
type Document map[string]any

type Client interface {
	Close() error
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	LoggedIn() bool
	Ping(ctx context.Context) error
	List(ctx context.Context, collection, orderBy, dir string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Delete(ctx context.Context, collection, id string) error
}
