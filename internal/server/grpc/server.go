// Package grpc exposes the account service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/logging"
	"github.com/dmitrijs2005/typetutor/internal/server/leaderboard"
	"github.com/dmitrijs2005/typetutor/internal/server/models"
	"github.com/dmitrijs2005/typetutor/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is implemented by services.UserService.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch services.ProfileUpdate) (*models.User, error)
	AvatarUploadURL(ctx context.Context, userID string) (key, url string, err error)
	Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

var _ AccountService = (*services.UserService)(nil)

type GRPCServer struct {
	address   string
	users     AccountService
	logger    logging.Logger
	jwtSecret []byte
}

var _ accountapi.AccountServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us AccountService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer returns a gRPC server with the account service and the access
// token interceptor registered, ready to Serve on any listener.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	accountapi.RegisterAccountServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
