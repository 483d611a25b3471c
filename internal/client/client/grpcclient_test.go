package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/contentapi"
)

/*************
 * Fake api client
 *************/

type fakeAPI struct {
	lastRefreshReq *structpb.Struct
	lastLoginReq   *structpb.Struct
	lastListReq    *structpb.Struct
	lastGetReq     *structpb.Struct
	lastDeleteReq  *structpb.Struct

	refreshResp *structpb.Struct
	refreshErr  error

	loginResp *structpb.Struct
	loginErr  error

	pingResp *structpb.Struct
	pingErr  error

	listResp *structpb.Struct
	listErr  error

	getResp *structpb.Struct
	getErr  error

	deleteErr error
}

func (f *fakeAPI) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastRefreshReq = in
	return f.refreshResp, f.refreshErr
}
func (f *fakeAPI) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}
func (f *fakeAPI) Ping(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.pingResp, f.pingErr
}
func (f *fakeAPI) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastListReq = in
	return f.listResp, f.listErr
}
func (f *fakeAPI) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastGetReq = in
	return f.getResp, f.getErr
}
func (f *fakeAPI) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	f.lastDeleteReq = in
	return f.deleteErr
}

func tokenPair(access, refresh string) *structpb.Struct {
	return contentapi.Strings(map[string]string{
		contentapi.FieldAccessToken:  access,
		contentapi.FieldRefreshToken: refresh,
	})
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakeAPI{refreshResp: tokenPair("A2", "R2")}
	c := &GRPCClient{
		client:       f,
		accessToken:  "A1",
		refreshToken: "R1",
	}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R2", c.refreshToken)
	require.Equal(t, "R1", contentapi.String(f.lastRefreshReq, contentapi.FieldRefreshToken))
}

func TestInterceptor_RefreshFailureIsReturned(t *testing.T) {
	f := &fakeAPI{refreshErr: status.Error(codes.Unauthenticated, "unauthorized")}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Equal(t, "A1", c.accessToken)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakeAPI{}
	c := &GRPCClient{
		client:      f,
		accessToken: "A1",
	}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshReq)
}

func TestInterceptor_RefreshCallPassesThrough(t *testing.T) {
	c := &GRPCClient{accessToken: "A1", refreshToken: "R1"}
	called := false
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		called = true
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	err := c.accessTokenInterceptor(context.Background(), contentapi.FullMethod(contentapi.MethodRefreshToken), nil, nil, nil, invoker)
	require.Error(t, err)
	require.True(t, called)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_UnauthenticatedButDifferentMessage_NoRefresh(t *testing.T) {
	c := &GRPCClient{accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "some other reason")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.ErrorIs(t, c.mapError(status.Error(codes.NotFound, "not found")), ErrNotFound)
	require.Nil(t, c.mapError(nil))

	other := c.mapError(status.Error(codes.Internal, "x"))
	require.Error(t, other)
	require.Contains(t, other.Error(), "rpc error")
}

/*************
 * method tests
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakeAPI{pingResp: contentapi.Strings(map[string]string{"status": "OK"})}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakeAPI{pingResp: contentapi.Strings(map[string]string{"status": "DOWN"})}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c = &GRPCClient{client: &fakeAPI{pingErr: status.Error(codes.Unavailable, "x")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestLogin_SetsTokensAndLogoutClears(t *testing.T) {
	f := &fakeAPI{loginResp: tokenPair("A", "R")}
	c := &GRPCClient{client: f}

	require.False(t, c.LoggedIn())
	require.NoError(t, c.Login(context.Background(), "a@b.c", []byte("pw")))
	require.True(t, c.LoggedIn())
	require.Equal(t, "pw", contentapi.String(f.lastLoginReq, contentapi.FieldPassword))

	c.Logout()
	require.False(t, c.LoggedIn())

	f.loginErr = status.Error(codes.Unauthenticated, "unauthorized")
	require.ErrorIs(t, c.Login(context.Background(), "a@b.c", []byte("bad")), ErrUnauthorized)
}

func TestList_MapsDocuments(t *testing.T) {
	resp, err := structpb.NewStruct(map[string]any{
		"documents": []any{
			map[string]any{"id": "1", "title": "Ledger"},
			map[string]any{"id": "2", "title": "Audit"},
		},
	})
	require.NoError(t, err)
	f := &fakeAPI{listResp: resp}
	c := &GRPCClient{client: f}

	docs, err := c.List(context.Background(), "projects", "title", "desc")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "Ledger", docs[0]["title"])
	require.Equal(t, "desc", contentapi.String(f.lastListReq, contentapi.FieldDirection))

	_, err = c.List(context.Background(), "projects", "", "")
	require.NoError(t, err)
	_, ok := f.lastListReq.GetFields()[contentapi.FieldOrderBy]
	require.False(t, ok)

	f.listErr = status.Error(codes.NotFound, "unknown collection")
	_, err = c.List(context.Background(), "nope", "", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetAndDelete(t *testing.T) {
	resp, err := structpb.NewStruct(map[string]any{"document": map[string]any{"id": "1", "name": "Ann"}})
	require.NoError(t, err)
	f := &fakeAPI{getResp: resp}
	c := &GRPCClient{client: f}

	doc, err := c.Get(context.Background(), "messages", "1")
	require.NoError(t, err)
	require.Equal(t, "Ann", doc["name"])

	require.NoError(t, c.Delete(context.Background(), "messages", "1"))
	require.Equal(t, "1", contentapi.String(f.lastDeleteReq, contentapi.FieldID))

	f.deleteErr = errors.New("plain")
	require.Error(t, c.Delete(context.Background(), "messages", "1"))
}
