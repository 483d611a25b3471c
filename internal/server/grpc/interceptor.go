package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/contentapi"
)

type ctxKey string

const AdminIDKey ctxKey = "adminID"

var openMethods = map[string]bool{
	contentapi.FullMethod(contentapi.MethodLogin):        true,
	contentapi.FullMethod(contentapi.MethodRefreshToken): true,
	contentapi.FullMethod(contentapi.MethodPing):         true,
}

// accessTokenInterceptor requires a valid access token on every method except
// login, token refresh and ping. An expired token is reported with the
// message of common.ErrTokenExpired so clients know to refresh.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if openMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	adminID, err := s.users.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, AdminIDKey, adminID)
	return handler(ctx, req)
}
