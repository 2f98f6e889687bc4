package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCAdminMiddleware enforces administrator authorization on the gRPC admin
// surface via the authorization metadata key.
type GRPCAdminMiddleware struct {
	admin *AdminMiddleware
}

// NewGRPCAdminMiddleware creates a GRPCAdminMiddleware around the shared
// admin token check.
func NewGRPCAdminMiddleware(admin *AdminMiddleware) *GRPCAdminMiddleware {
	return &GRPCAdminMiddleware{admin: admin}
}

// UnaryInterceptor rejects calls without the admin token.
func (m *GRPCAdminMiddleware) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}

	authHeader := md.Get("authorization")
	if len(authHeader) == 0 || !m.admin.Authorized(BearerToken(authHeader[0])) {
		return nil, status.Error(codes.PermissionDenied, "administrator authorization required")
	}

	return handler(ctx, req)
}
