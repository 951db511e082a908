package gateway

import (
	"context"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
)

// Gateway is the subset of the account service the session store needs.
type Gateway interface {
	Login(ctx context.Context, req accountapi.LoginRequest) (accountapi.Envelope[accountapi.AuthPayload], error)
	Register(ctx context.Context, req accountapi.RegisterRequest) (accountapi.Envelope[accountapi.AuthPayload], error)
	FetchProfile(ctx context.Context) (accountapi.Envelope[accountapi.ProfilePayload], error)
	UpdateProfile(ctx context.Context, req accountapi.UpdateProfileRequest) (accountapi.Envelope[accountapi.ProfilePayload], error)
}

// Client is the full account service as used by the terminal client.
type Client interface {
	Gateway
	RequestAvatarUpload(ctx context.Context) (accountapi.Envelope[accountapi.AvatarUpload], error)
	Leaderboard(ctx context.Context, limit int) (accountapi.Envelope[accountapi.LeaderboardPayload], error)
	Close() error
}

// TokenSource yields the bearer token attached to outgoing calls.
// credential.Store satisfies it.
type TokenSource interface {
	Get(ctx context.Context) (token string, ok bool, err error)
}
