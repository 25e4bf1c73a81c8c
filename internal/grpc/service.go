package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "garage.v1.QueueService"

// Full method names, used by the auth allowlist and the client.
const (
	MethodListQueue     = "/" + ServiceName + "/ListQueue"
	MethodListMyOrders  = "/" + ServiceName + "/ListMyOrders"
	MethodCreateOrder   = "/" + ServiceName + "/CreateOrder"
	MethodAdvanceStatus = "/" + ServiceName + "/AdvanceStatus"
	MethodSetStatus     = "/" + ServiceName + "/SetStatus"
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLookupEmail   = "/" + ServiceName + "/LookupEmail"
	MethodGetProfile    = "/" + ServiceName + "/GetProfile"
	MethodUpdateProfile = "/" + ServiceName + "/UpdateProfile"
)

// QueueServiceServer is the server API for garage.v1.QueueService.
type QueueServiceServer interface {
	ListQueue(context.Context, *ListQueueRequest) (*ListOrdersResponse, error)
	ListMyOrders(context.Context, *emptypb.Empty) (*ListOrdersResponse, error)
	CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error)
	AdvanceStatus(context.Context, *AdvanceStatusRequest) (*AdvanceStatusResponse, error)
	SetStatus(context.Context, *SetStatusRequest) (*emptypb.Empty, error)
	Register(context.Context, *RegisterRequest) (*Profile, error)
	LookupEmail(context.Context, *LookupEmailRequest) (*LookupEmailResponse, error)
	GetProfile(context.Context, *emptypb.Empty) (*Profile, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*emptypb.Empty, error)
}

// unary builds a method descriptor the way protoc-gen-go-grpc does for a
// single unary method.
func unary[Req, Resp any](fullMethod string, call func(QueueServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: fullMethod[len(ServiceName)+2:],
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(QueueServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(QueueServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// QueueServiceDesc describes garage.v1.QueueService for grpc.Server.RegisterService.
var QueueServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueueServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListQueue, QueueServiceServer.ListQueue),
		unary(MethodListMyOrders, QueueServiceServer.ListMyOrders),
		unary(MethodCreateOrder, QueueServiceServer.CreateOrder),
		unary(MethodAdvanceStatus, QueueServiceServer.AdvanceStatus),
		unary(MethodSetStatus, QueueServiceServer.SetStatus),
		unary(MethodRegister, QueueServiceServer.Register),
		unary(MethodLookupEmail, QueueServiceServer.LookupEmail),
		unary(MethodGetProfile, QueueServiceServer.GetProfile),
		unary(MethodUpdateProfile, QueueServiceServer.UpdateProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "garage/v1/queue.proto",
}

// RegisterQueueServiceServer registers srv on s.
func RegisterQueueServiceServer(s grpc.ServiceRegistrar, srv QueueServiceServer) {
	s.RegisterService(&QueueServiceDesc, srv)
}
