package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type WithdrawalActionRequest struct {
	Id string
}

type WithdrawalData struct {
	Id          string
	UserId      string
	AmountCents int64
	Status      string
}

type WithdrawalResponse struct {
	Withdrawal *WithdrawalData
}

type WithdrawalListResponse struct {
	Withdrawals []*WithdrawalData
}

// AdminServiceServer is the server API for AdminService service.
type AdminServiceServer interface {
	ApproveWithdrawal(context.Context, *WithdrawalActionRequest) (*WithdrawalResponse, error)
	ListPendingWithdrawals(context.Context, *emptypb.Empty) (*WithdrawalListResponse, error)
}

// UnimplementedAdminServiceServer can be embedded to have forward compatible implementations.
type UnimplementedAdminServiceServer struct{}

func (*UnimplementedAdminServiceServer) ApproveWithdrawal(context.Context, *WithdrawalActionRequest) (*WithdrawalResponse, error) {
	return nil, nil
}
func (*UnimplementedAdminServiceServer) ListPendingWithdrawals(context.Context, *emptypb.Empty) (*WithdrawalListResponse, error) {
	return nil, nil
}

func RegisterAdminServiceServer(s *grpc.Server, srv AdminServiceServer) {
	s.RegisterService(&_AdminService_serviceDesc, srv)
}

func _AdminService_ApproveWithdrawal_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WithdrawalActionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ApproveWithdrawal(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/rewards.AdminService/ApproveWithdrawal",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServiceServer).ApproveWithdrawal(ctx, req.(*WithdrawalActionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_ListPendingWithdrawals_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ListPendingWithdrawals(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/rewards.AdminService/ListPendingWithdrawals",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServiceServer).ListPendingWithdrawals(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var _AdminService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "rewards.AdminService",
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ApproveWithdrawal",
			Handler:    _AdminService_ApproveWithdrawal_Handler,
		},
		{
			MethodName: "ListPendingWithdrawals",
			Handler:    _AdminService_ListPendingWithdrawals_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rewards.proto",
}
