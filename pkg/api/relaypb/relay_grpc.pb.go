package relaypb

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	RelayRouter_Setup_FullMethodName     = "/wakerelay.relay.v1.RelayRouter/Setup"
	RelayRouter_Forward_FullMethodName   = "/wakerelay.relay.v1.RelayRouter/Forward"
	RelayRouter_Poll_FullMethodName      = "/wakerelay.relay.v1.RelayRouter/Poll"
	RelayRouter_MapUpdate_FullMethodName = "/wakerelay.relay.v1.RelayRouter/MapUpdate"

	PushGateway_Notify_FullMethodName = "/wakerelay.relay.v1.PushGateway/Notify"
)

// RelayRouterClient is the client API for the RelayRouter service.
type RelayRouterClient interface {
	Setup(ctx context.Context, in *SetupRequest, opts ...grpc.CallOption) (*SetupResponse, error)
	Forward(ctx context.Context, in *ForwardRequest, opts ...grpc.CallOption) (*ForwardResponse, error)
	Poll(ctx context.Context, in *PollRequest, opts ...grpc.CallOption) (*PollResponse, error)
	MapUpdate(ctx context.Context, in *MapUpdateRequest, opts ...grpc.CallOption) (*MapUpdateResponse, error)
}

type relayRouterClient struct {
	cc grpc.ClientConnInterface
}

func NewRelayRouterClient(cc grpc.ClientConnInterface) RelayRouterClient {
	return &relayRouterClient{cc}
}

func (c *relayRouterClient) Setup(ctx context.Context, in *SetupRequest, opts ...grpc.CallOption) (*SetupResponse, error) {
	out := new(SetupResponse)
	err := c.cc.Invoke(ctx, RelayRouter_Setup_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayRouterClient) Forward(ctx context.Context, in *ForwardRequest, opts ...grpc.CallOption) (*ForwardResponse, error) {
	out := new(ForwardResponse)
	err := c.cc.Invoke(ctx, RelayRouter_Forward_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayRouterClient) Poll(ctx context.Context, in *PollRequest, opts ...grpc.CallOption) (*PollResponse, error) {
	out := new(PollResponse)
	err := c.cc.Invoke(ctx, RelayRouter_Poll_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayRouterClient) MapUpdate(ctx context.Context, in *MapUpdateRequest, opts ...grpc.CallOption) (*MapUpdateResponse, error) {
	out := new(MapUpdateResponse)
	err := c.cc.Invoke(ctx, RelayRouter_MapUpdate_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RelayRouterServer is the server API for the RelayRouter service.
// All implementations must embed UnimplementedRelayRouterServer for
// forward compatibility.
type RelayRouterServer interface {
	Setup(context.Context, *SetupRequest) (*SetupResponse, error)
	Forward(context.Context, *ForwardRequest) (*ForwardResponse, error)
	Poll(context.Context, *PollRequest) (*PollResponse, error)
	MapUpdate(context.Context, *MapUpdateRequest) (*MapUpdateResponse, error)
	mustEmbedUnimplementedRelayRouterServer()
}

// UnimplementedRelayRouterServer must be embedded to have forward
// compatible implementations.
type UnimplementedRelayRouterServer struct{}

func (UnimplementedRelayRouterServer) Setup(context.Context, *SetupRequest) (*SetupResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Setup not implemented")
}
func (UnimplementedRelayRouterServer) Forward(context.Context, *ForwardRequest) (*ForwardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Forward not implemented")
}
func (UnimplementedRelayRouterServer) Poll(context.Context, *PollRequest) (*PollResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Poll not implemented")
}
func (UnimplementedRelayRouterServer) MapUpdate(context.Context, *MapUpdateRequest) (*MapUpdateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MapUpdate not implemented")
}
func (UnimplementedRelayRouterServer) mustEmbedUnimplementedRelayRouterServer() {}

func RegisterRelayRouterServer(s grpc.ServiceRegistrar, srv RelayRouterServer) {
	s.RegisterService(&RelayRouter_ServiceDesc, srv)
}

func _RelayRouter_Setup_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayRouterServer).Setup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayRouter_Setup_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RelayRouterServer).Setup(ctx, req.(*SetupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RelayRouter_Forward_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ForwardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayRouterServer).Forward(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayRouter_Forward_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RelayRouterServer).Forward(ctx, req.(*ForwardRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RelayRouter_Poll_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PollRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayRouterServer).Poll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayRouter_Poll_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RelayRouterServer).Poll(ctx, req.(*PollRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RelayRouter_MapUpdate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MapUpdateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayRouterServer).MapUpdate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayRouter_MapUpdate_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RelayRouterServer).MapUpdate(ctx, req.(*MapUpdateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RelayRouter_ServiceDesc is the grpc.ServiceDesc for the RelayRouter
// service. It should not be introspected or modified (even as a copy).
var RelayRouter_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "wakerelay.relay.v1.RelayRouter",
	HandlerType: (*RelayRouterServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Setup",
			Handler:    _RelayRouter_Setup_Handler,
		},
		{
			MethodName: "Forward",
			Handler:    _RelayRouter_Forward_Handler,
		},
		{
			MethodName: "Poll",
			Handler:    _RelayRouter_Poll_Handler,
		},
		{
			MethodName: "MapUpdate",
			Handler:    _RelayRouter_MapUpdate_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pkg/api/relaypb/relay.proto",
}

// PushGatewayClient is the client API for the PushGateway service.
type PushGatewayClient interface {
	Notify(ctx context.Context, in *PushRequest, opts ...grpc.CallOption) (*PushResponse, error)
}

type pushGatewayClient struct {
	cc grpc.ClientConnInterface
}

func NewPushGatewayClient(cc grpc.ClientConnInterface) PushGatewayClient {
	return &pushGatewayClient{cc}
}

func (c *pushGatewayClient) Notify(ctx context.Context, in *PushRequest, opts ...grpc.CallOption) (*PushResponse, error) {
	out := new(PushResponse)
	err := c.cc.Invoke(ctx, PushGateway_Notify_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PushGatewayServer is the server API for the PushGateway service.
// All implementations must embed UnimplementedPushGatewayServer for
// forward compatibility.
type PushGatewayServer interface {
	Notify(context.Context, *PushRequest) (*PushResponse, error)
	mustEmbedUnimplementedPushGatewayServer()
}

// UnimplementedPushGatewayServer must be embedded to have forward
// compatible implementations.
type UnimplementedPushGatewayServer struct{}

func (UnimplementedPushGatewayServer) Notify(context.Context, *PushRequest) (*PushResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Notify not implemented")
}
func (UnimplementedPushGatewayServer) mustEmbedUnimplementedPushGatewayServer() {}

func RegisterPushGatewayServer(s grpc.ServiceRegistrar, srv PushGatewayServer) {
	s.RegisterService(&PushGateway_ServiceDesc, srv)
}

func _PushGateway_Notify_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PushRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PushGatewayServer).Notify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PushGateway_Notify_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PushGatewayServer).Notify(ctx, req.(*PushRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PushGateway_ServiceDesc is the grpc.ServiceDesc for the PushGateway
// service. It should not be introspected or modified (even as a copy).
var PushGateway_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "wakerelay.relay.v1.PushGateway",
	HandlerType: (*PushGatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Notify",
			Handler:    _PushGateway_Notify_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pkg/api/relaypb/relay.proto",
}
