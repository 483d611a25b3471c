package grpc

import (
	"context"
	"errors"
	"maps"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/contentapi"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

// toStatus maps service errors to gRPC status codes. Internal details are
// logged, never returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorUnknownCollection):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorInvalidReference):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func adminFrom(ctx context.Context) string {
	id, _ := ctx.Value(AdminIDKey).(string)
	return id
}

func tokens(access, refresh string) *structpb.Struct {
	return contentapi.Strings(map[string]string{
		contentapi.FieldAccessToken:  access,
		contentapi.FieldRefreshToken: refresh,
	})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email := contentapi.String(req, contentapi.FieldEmail)
	pair, err := s.users.Login(ctx, email, contentapi.String(req, contentapi.FieldPassword))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "login rejected", "email", email)
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Logged in", "email", email)
	return tokens(pair.AccessToken, pair.RefreshToken), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pair, err := s.users.RefreshToken(ctx, contentapi.String(req, contentapi.FieldRefreshToken))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokens(pair.AccessToken, pair.RefreshToken), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return contentapi.Strings(map[string]string{contentapi.FieldStatus: contentapi.StatusOK}), nil
}

// documentMap flattens a document into its fields plus id and createdAt.
func documentMap(d models.Document) map[string]any {
	out := maps.Clone(d.Fields)
	if out == nil {
		out = map[string]any{}
	}
	out[contentapi.FieldID] = d.ID
	out["createdAt"] = common.FormatTimestamp(d.CreatedAt)
	return out
}

func (s *GRPCServer) List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection := contentapi.String(req, contentapi.FieldCollection)
	order := models.Order{}
	if f := contentapi.String(req, contentapi.FieldOrderBy); f != "" {
		order = models.By(f, models.ParseDirection(contentapi.String(req, contentapi.FieldDirection)))
	}

	docs, err := s.content.List(ctx, collection, order)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	list := make([]any, 0, len(docs))
	for _, d := range docs {
		list = append(list, documentMap(d))
	}
	out, err := structpb.NewStruct(map[string]any{contentapi.FieldDocuments: list})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.content.Get(ctx, contentapi.String(req, contentapi.FieldCollection), contentapi.String(req, contentapi.FieldID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out, err := structpb.NewStruct(map[string]any{contentapi.FieldDocument: documentMap(*d)})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func requestFields(req *structpb.Struct) (map[string]any, error) {
	f := req.GetFields()[contentapi.FieldFields].GetStructValue()
	if f == nil || len(f.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "fields are required")
	}
	return f.AsMap(), nil
}

func (s *GRPCServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection := contentapi.String(req, contentapi.FieldCollection)
	fields, err := requestFields(req)
	if err != nil {
		return nil, err
	}
	id, err := s.content.Create(ctx, collection, fields)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "document created", "admin", adminFrom(ctx), "collection", collection, "id", id)
	return contentapi.Strings(map[string]string{contentapi.FieldID: id}), nil
}

func (s *GRPCServer) Update(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection := contentapi.String(req, contentapi.FieldCollection)
	id := contentapi.String(req, contentapi.FieldID)
	fields, err := requestFields(req)
	if err != nil {
		return nil, err
	}
	if err := s.content.Update(ctx, collection, id, fields); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "document updated", "admin", adminFrom(ctx), "collection", collection, "id", id)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection := contentapi.String(req, contentapi.FieldCollection)
	id := contentapi.String(req, contentapi.FieldID)
	if err := s.content.Delete(ctx, collection, id); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "document deleted", "admin", adminFrom(ctx), "collection", collection, "id", id)
	return &emptypb.Empty{}, nil
}
