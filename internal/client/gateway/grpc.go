package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/common"
	"github.com/dmitrijs2005/typetutor/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// invoker is the part of *grpc.ClientConn used to issue calls.
type invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

type GRPCGateway struct {
	conn    invoker
	closer  func() error
	tokens  TokenSource
	timeout time.Duration
	log     logging.Logger
}

var _ Client = (*GRPCGateway)(nil)

// NewGRPCGateway connects lazily to addr. Extra dial options are appended
// after the defaults (tests use them to install a bufconn dialer).
func NewGRPCGateway(addr string, tokens TokenSource, timeout time.Duration, log logging.Logger, opts ...grpc.DialOption) (*GRPCGateway, error) {
	g := &GRPCGateway{
		tokens:  tokens,
		timeout: timeout,
		log:     log.With("module", "gateway"),
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(g.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	g.conn = conn
	g.closer = conn.Close
	return g, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor reads the stored token on every call, so a login or
// logout takes effect without rebuilding the connection.
func (g *GRPCGateway) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, ok, err := g.tokens.Get(ctx)
	if err != nil {
		g.log.Warn(ctx, "credential read failed, calling without token", "method", method, "error", err)
	}
	if !ok || err != nil {
		token = ""
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

func (g *GRPCGateway) mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return ErrUnavailable
		}
	}
	return fmt.Errorf("rpc error: %w", err)
}

func call[T any](ctx context.Context, g *GRPCGateway, method string, req any) (accountapi.Envelope[T], error) {
	var env accountapi.Envelope[T]

	in, err := accountapi.ToStruct(req)
	if err != nil {
		return env, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out := new(structpb.Struct)
	if err := g.conn.Invoke(ctx, method, in, out); err != nil {
		if st, ok := status.FromError(err); ok {
			switch st.Code() {
			case codes.Unauthenticated, codes.PermissionDenied:
				return accountapi.Unauthorized[T](st.Message()), nil
			}
		}
		g.log.Debug(ctx, "call failed", "method", method, "error", err)
		return env, g.mapError(err)
	}

	if err := accountapi.FromStruct(out, &env); err != nil {
		return env, err
	}
	switch env.Outcome {
	case accountapi.OutcomeSuccess, accountapi.OutcomeError:
		return env, nil
	default:
		return env, fmt.Errorf("%w: outcome %q", ErrMalformedEnvelope, env.Outcome)
	}
}

func (g *GRPCGateway) Login(ctx context.Context, req accountapi.LoginRequest) (accountapi.Envelope[accountapi.AuthPayload], error) {
	return call[accountapi.AuthPayload](ctx, g, accountapi.LoginMethod, req)
}

func (g *GRPCGateway) Register(ctx context.Context, req accountapi.RegisterRequest) (accountapi.Envelope[accountapi.AuthPayload], error) {
	return call[accountapi.AuthPayload](ctx, g, accountapi.RegisterMethod, req)
}

func (g *GRPCGateway) FetchProfile(ctx context.Context) (accountapi.Envelope[accountapi.ProfilePayload], error) {
	return call[accountapi.ProfilePayload](ctx, g, accountapi.FetchProfileMethod, accountapi.Empty{})
}

func (g *GRPCGateway) UpdateProfile(ctx context.Context, req accountapi.UpdateProfileRequest) (accountapi.Envelope[accountapi.ProfilePayload], error) {
	return call[accountapi.ProfilePayload](ctx, g, accountapi.UpdateProfileMethod, req)
}

func (g *GRPCGateway) RequestAvatarUpload(ctx context.Context) (accountapi.Envelope[accountapi.AvatarUpload], error) {
	return call[accountapi.AvatarUpload](ctx, g, accountapi.RequestAvatarUploadMethod, accountapi.Empty{})
}

func (g *GRPCGateway) Leaderboard(ctx context.Context, limit int) (accountapi.Envelope[accountapi.LeaderboardPayload], error) {
	return call[accountapi.LeaderboardPayload](ctx, g, accountapi.LeaderboardMethod, accountapi.LeaderboardRequest{Limit: limit})
}

func (g *GRPCGateway) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}
