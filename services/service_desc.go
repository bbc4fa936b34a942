package services

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "clubmember.ClubService"

const (
	MethodAddMember        = "AddMember"
	MethodRemoveMember     = "RemoveMember"
	MethodRemoveMemberSelf = "RemoveMemberSelf"
	MethodMembers          = "Members"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ClubServiceServer is the server API for clubmember.ClubService. Requests and responses
// are protobuf well-known types, so no generated code is needed.
type ClubServiceServer interface {
	AddMember(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	RemoveMember(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	RemoveMemberSelf(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Members(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

func RegisterClubServiceServer(s *grpc.Server, srv ClubServiceServer) {
	s.RegisterService(&ClubServiceDesc, srv)
}

var ClubServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClubServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodAddMember,
			Handler: unaryHandler(MethodAddMember, newStringValue, func(srv ClubServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
				return srv.AddMember(ctx, in.(*wrapperspb.StringValue))
			}),
		},
		{
			MethodName: MethodRemoveMember,
			Handler: unaryHandler(MethodRemoveMember, newStringValue, func(srv ClubServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
				return srv.RemoveMember(ctx, in.(*wrapperspb.StringValue))
			}),
		},
		{
			MethodName: MethodRemoveMemberSelf,
			Handler: unaryHandler(MethodRemoveMemberSelf, newStringValue, func(srv ClubServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
				return srv.RemoveMemberSelf(ctx, in.(*wrapperspb.StringValue))
			}),
		},
		{
			MethodName: MethodMembers,
			Handler: unaryHandler(MethodMembers, newEmpty, func(srv ClubServiceServer, ctx context.Context, in proto.Message) (proto.Message, error) {
				return srv.Members(ctx, in.(*emptypb.Empty))
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clubmember.proto",
}

func newStringValue() proto.Message {
	return &wrapperspb.StringValue{}
}

func newEmpty() proto.Message {
	return &emptypb.Empty{}
}

type unaryCall func(srv ClubServiceServer, ctx context.Context, in proto.Message) (proto.Message, error)

func unaryHandler(method string, newRequest func() proto.Message, call unaryCall) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ClubServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ClubServiceServer), ctx, req.(proto.Message))
		}
		return interceptor(ctx, in, info, handler)
	}
}
