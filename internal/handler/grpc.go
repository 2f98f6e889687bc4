package handler

import (
	"context"
	"errors"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/proto"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AdminGRPCServer exposes withdrawal administration over gRPC. Authorization
// is enforced by the admin unary interceptor.
type AdminGRPCServer struct {
	proto.UnimplementedAdminServiceServer
	withdrawals WithdrawalService
}

// NewAdminGRPCServer constructs an AdminGRPCServer.
func NewAdminGRPCServer(withdrawals WithdrawalService) *AdminGRPCServer {
	return &AdminGRPCServer{
		withdrawals: withdrawals,
	}
}

// RegisterAdminService registers the admin service implementation on s.
func RegisterAdminService(s *grpc.Server, withdrawals WithdrawalService) {
	proto.RegisterAdminServiceServer(s, NewAdminGRPCServer(withdrawals))
}

func toWithdrawalData(w *model.WithdrawalRequest) *proto.WithdrawalData {
	return &proto.WithdrawalData{
		Id:          w.ID,
		UserId:      w.UserID,
		AmountCents: int64(w.Amount),
		Status:      string(w.Status),
	}
}

func (s *AdminGRPCServer) ApproveWithdrawal(ctx context.Context, req *proto.WithdrawalActionRequest) (*proto.WithdrawalResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	w, err := s.withdrawals.Approve(ctx, req.Id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrWithdrawalNotFound):
			return nil, status.Error(codes.NotFound, "withdrawal request not found")
		case errors.Is(err, storage.ErrInvalidTransition):
			return nil, status.Error(codes.FailedPrecondition, "withdrawal request is already settled")
		default:
			return nil, status.Errorf(codes.Internal, "failed to approve withdrawal: %v", err)
		}
	}

	return &proto.WithdrawalResponse{Withdrawal: toWithdrawalData(w)}, nil
}

func (s *AdminGRPCServer) ListPendingWithdrawals(ctx context.Context, _ *emptypb.Empty) (*proto.WithdrawalListResponse, error) {
	pending, err := s.withdrawals.Pending(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list withdrawals: %v", err)
	}

	resp := &proto.WithdrawalListResponse{
		Withdrawals: make([]*proto.WithdrawalData, 0, len(pending)),
	}
	for i := range pending {
		resp.Withdrawals = append(resp.Withdrawals, toWithdrawalData(&pending[i]))
	}

	return resp, nil
}
