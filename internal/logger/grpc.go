package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor logs every unary call and puts a call scoped logger
// in the handler context.
func UnaryServerInterceptor(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		callLogger := base.With(zap.String("grpc_method", info.FullMethod))

		resp, err := handler(WithContext(ctx, callLogger), req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		switch code {
		case codes.OK:
			callLogger.Info("gRPC Request", fields...)
		case codes.Internal, codes.Unavailable, codes.Unknown, codes.DataLoss:
			callLogger.Error("gRPC Request", append(fields, zap.Error(err))...)
		default:
			callLogger.Warn("gRPC Request", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
