package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestGRPCAdminMiddleware_UnaryInterceptor(t *testing.T) {
	mw := NewGRPCAdminMiddleware(NewAdminMiddleware("admin-token"))

	info := &grpc.UnaryServerInfo{FullMethod: "/rewards.AdminService/ApproveWithdrawal"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "handled", nil
	}

	tests := []struct {
		name     string
		ctx      context.Context
		wantCode codes.Code
	}{
		{
			name: "Valid token",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "Bearer admin-token")),
			wantCode: codes.OK,
		},
		{
			name: "Token without Bearer prefix",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "admin-token")),
			wantCode: codes.OK,
		},
		{
			name: "Wrong token",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "Bearer wrong")),
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "Missing authorization metadata",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.MD{}),
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "No metadata at all",
			ctx:      context.Background(),
			wantCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := mw.UnaryInterceptor(tt.ctx, nil, info, handler)

			if tt.wantCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, "handled", resp)
				return
			}

			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.Nil(t, resp)
		})
	}
}
