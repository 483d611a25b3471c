// Package contentapi defines the folio content service shared by the gRPC
// server and the admin CLI. Requests and responses are protobuf well-known
// types, so the service is described by hand instead of by generated code.
package contentapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "folio.content.v1.ContentService"

const (
	MethodLogin        = "Login"
	MethodRefreshToken = "RefreshToken"
	MethodPing         = "Ping"
	MethodList         = "List"
	MethodGet          = "Get"
	MethodCreate       = "Create"
	MethodUpdate       = "Update"
	MethodDelete       = "Delete"
)

// FullMethod returns the wire name of a method, as seen by interceptors.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Request and response field names.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldStatus       = "status"
	FieldCollection   = "collection"
	FieldID           = "id"
	FieldOrderBy      = "order_by"
	FieldDirection    = "dir"
	FieldFields       = "fields"
	FieldDocuments    = "documents"
	FieldDocument     = "document"
)

// StatusOK is the Ping reply status.
const StatusOK = "OK"

// ContentServiceServer is implemented by the server.
//
//	Login(email, password) -> {access_token, refresh_token}
//	RefreshToken(refresh_token) -> {access_token, refresh_token}
//	Ping() -> {status}
//	List(collection, order_by?, dir?) -> {documents: [...]}
//	Get(collection, id) -> {document}
//	Create(collection, fields) -> {id}
//	Update(collection, id, fields) -> Empty
//	Delete(collection, id) -> Empty
type ContentServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

func unary[Req, Resp proto.Message](name string, newReq func() Req, call func(ContentServiceServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ContentServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(ContentServiceServer), ctx, req.(Req))
			})
		},
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodLogin, newStruct, ContentServiceServer.Login),
		unary(MethodRefreshToken, newStruct, ContentServiceServer.RefreshToken),
		unary(MethodPing, newEmpty, ContentServiceServer.Ping),
		unary(MethodList, newStruct, ContentServiceServer.List),
		unary(MethodGet, newStruct, ContentServiceServer.Get),
		unary(MethodCreate, newStruct, ContentServiceServer.Create),
		unary(MethodUpdate, newStruct, ContentServiceServer.Update),
		unary(MethodDelete, newStruct, ContentServiceServer.Delete),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "folio/content/v1/content.proto",
}

func RegisterContentServiceServer(s grpc.ServiceRegistrar, srv ContentServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ContentServiceClient calls the service over a client connection.
type ContentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContentServiceClient(cc grpc.ClientConnInterface) *ContentServiceClient {
	return &ContentServiceClient{cc: cc}
}

func (c *ContentServiceClient) invokeStruct(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContentServiceClient) invokeEmpty(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod(method), in, new(emptypb.Empty), opts...)
}

func (c *ContentServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodLogin, in, opts...)
}

func (c *ContentServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodRefreshToken, in, opts...)
}

func (c *ContentServiceClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodPing, &emptypb.Empty{}, opts...)
}

func (c *ContentServiceClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodList, in, opts...)
}

func (c *ContentServiceClient) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodGet, in, opts...)
}

func (c *ContentServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodCreate, in, opts...)
}

func (c *ContentServiceClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.invokeEmpty(ctx, MethodUpdate, in, opts...)
}

func (c *ContentServiceClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.invokeEmpty(ctx, MethodDelete, in, opts...)
}

// String returns a string field of s, or "".
func String(s *structpb.Struct, field string) string {
	return s.GetFields()[field].GetStringValue()
}

// Strings builds a request of string fields.
func Strings(kv map[string]string) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(kv))}
	for k, v := range kv {
		out.Fields[k] = structpb.NewStringValue(v)
	}
	return out
}
