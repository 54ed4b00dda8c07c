package server

import (
	"net"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	myGRPC "github.com/MKhiriev/go-budget-auth/internal/handler/grpc"
	"github.com/MKhiriev/go-budget-auth/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server      *grpc.Server
	listenAddr  string
	netListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(server, handler)

	return &grpcServer{
		handler:    handler,
		server:     server,
		listenAddr: cfg.GRPCAddress,
		logger:     logger,
	}
}

func (g *grpcServer) RunServer() {
	listener, err := net.Listen("tcp", g.listenAddr)
	if err != nil {
		g.logger.Error().Msgf("gRPC server Listen: %v", err)
		return
	}
	g.netListener = listener

	if err := g.server.Serve(g.netListener); err != nil {
		g.logger.Error().Msgf("gRPC server Serve: %v", err)
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.server.GracefulStop()
}
