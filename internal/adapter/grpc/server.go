package grpc

import (
	"github.com/golang/glog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	cyclestatus "github.com/atcwiz/xrp-dashboard/internal/usecase/status"
)

// UpdaterServiceName is the health service that reflects the last update cycle
const UpdaterServiceName = "xrpdashboard.Updater"

// Server exposes the updater status over the standard gRPC health protocol.
// The overall ("") service is SERVING while the process runs; UpdaterServiceName
// is SERVING after a successful cycle and NOT_SERVING before the first cycle or
// after a failed one.
type Server struct {
	*grpc.Server
	health *health.Server
}

// NewServer creates a new gRPC server guarded by the token interceptors.
// If tracker is non-nil the health status follows its recorded cycles.
func NewServer(tracker *cyclestatus.Tracker, apiToken string) *Server {
	gs := grpc.NewServer(
		grpc.UnaryInterceptor(AuthInterceptor(apiToken)),
		grpc.StreamInterceptor(StreamAuthInterceptor(apiToken)),
	)

	hs := health.NewServer()
	hs.SetServingStatus(UpdaterServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{Server: gs, health: hs}

	if tracker != nil {
		if last, ok := tracker.Last(); ok {
			s.Publish(last)
		}
		tracker.Subscribe(s.Publish)
	}

	return s
}

// Publish maps a cycle result onto the updater health status
func (s *Server) Publish(result cyclestatus.CycleResult) {
	st := healthpb.HealthCheckResponse_SERVING
	if !result.OK() {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	glog.V(1).Infof("Health %s -> %s (cycle %d)", UpdaterServiceName, st, result.Cycle)
	s.health.SetServingStatus(UpdaterServiceName, st)
}

// GracefulStop marks every service NOT_SERVING and then stops the server
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
