// Package client talks to the folio content API.
//
// GRPCClient keeps the admin's token pair in memory, attaches the access
// token to every call and, when the server reports an expired token, refreshes
// the pair once and retries. gRPC status codes are mapped to ErrUnauthorized,
// ErrNotFound and ErrUnavailable.
package client
