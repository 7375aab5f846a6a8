// Package grpcserver exposes the search service's gRPC surface: the standard
// health protocol, fed by the upstream probe, plus server reflection.
//
// The overall status ("") tracks the process itself and stays SERVING
// until shutdown. The per-service status follows the upstream listing API,
// so orchestrators can tell "process up" apart from "feed reachable".
package grpcserver

import (
	"context"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check key reported for upstream reachability.
const ServiceName = "jobmate.search.v1.SearchService"

// Server wraps a grpc.Server with a health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// NewServer builds the gRPC server. The upstream status starts as
// NOT_SERVING until the first probe reports otherwise.
func NewServer() *Server {
	s := &Server{
		grpc:   grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary)),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetUpstreamHealthy records the outcome of an upstream probe.
func (s *Server) SetUpstreamHealthy(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Serve blocks accepting connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Shutdown flips every status to NOT_SERVING, then drains in-flight RPCs.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// logUnary logs slow or failed calls together with the caller's request id,
// forwarded by the Gateway as x-request-id metadata.
func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)
	if err != nil || elapsed > time.Second {
		log.Printf("[grpc] %s request=%s took=%s err=%v", info.FullMethod, requestID(ctx), elapsed, err)
	}
	return resp, err
}

func requestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "-"
	}
	if vals := md.Get("x-request-id"); len(vals) > 0 && vals[0] != "" {
		return vals[0]
	}
	return "-"
}
