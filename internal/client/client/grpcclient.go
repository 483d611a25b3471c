package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/contentapi"
)

// api is the part of contentapi.ContentServiceClient the client uses.
type api interface {
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	// the refresh call itself must not recurse into a refresh
	if method == contentapi.FullMethod(contentapi.MethodRefreshToken) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	if rerr := s.refresh(ctx, refresh); rerr != nil {
		return rerr
	}

	access, _ = s.tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	resp, err := s.client.RefreshToken(ctx, contentapi.Strings(map[string]string{
		contentapi.FieldRefreshToken: refreshToken,
	}))
	if err != nil {
		return err
	}
	s.setTokens(contentapi.String(resp, contentapi.FieldAccessToken), contentapi.String(resp, contentapi.FieldRefreshToken))
	return nil
}

func NewFolioClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = contentapi.NewContentServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Login exchanges credentials for a token pair. The password is sent as is;
// wiping it is up to the caller.
func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) error {
	resp, err := s.client.Login(ctx, contentapi.Strings(map[string]string{
		contentapi.FieldEmail:    email,
		contentapi.FieldPassword: string(password),
	}))
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(contentapi.String(resp, contentapi.FieldAccessToken), contentapi.String(resp, contentapi.FieldRefreshToken))
	return nil
}

// Logout forgets the token pair.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx)
	if err != nil {
		return s.mapError(err)
	}
	if contentapi.String(resp, contentapi.FieldStatus) != contentapi.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) List(ctx context.Context, collection, orderBy, dir string) ([]Document, error) {
	req := map[string]string{contentapi.FieldCollection: collection}
	if orderBy != "" {
		req[contentapi.FieldOrderBy] = orderBy
		req[contentapi.FieldDirection] = dir
	}
	resp, err := s.client.List(ctx, contentapi.Strings(req))
	if err != nil {
		return nil, s.mapError(err)
	}

	values := resp.GetFields()[contentapi.FieldDocuments].GetListValue().GetValues()
	docs := make([]Document, 0, len(values))
	for _, v := range values {
		docs = append(docs, Document(v.GetStructValue().AsMap()))
	}
	return docs, nil
}

func (s *GRPCClient) Get(ctx context.Context, collection, id string) (Document, error) {
	resp, err := s.client.Get(ctx, contentapi.Strings(map[string]string{
		contentapi.FieldCollection: collection,
		contentapi.FieldID:         id,
	}))
	if err != nil {
		return nil, s.mapError(err)
	}
	return Document(resp.GetFields()[contentapi.FieldDocument].GetStructValue().AsMap()), nil
}

func (s *GRPCClient) Delete(ctx context.Context, collection, id string) error {
	err := s.client.Delete(ctx, contentapi.Strings(map[string]string{
		contentapi.FieldCollection: collection,
		contentapi.FieldID:         id,
	}))
	return s.mapError(err)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
