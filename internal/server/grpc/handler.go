package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/common"
	"github.com/dmitrijs2005/typetutor/internal/server/avatars"
	"github.com/dmitrijs2005/typetutor/internal/server/models"
	"github.com/dmitrijs2005/typetutor/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func decode[T any](in *structpb.Struct) (T, error) {
	var req T
	if err := accountapi.FromStruct(in, &req); err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	return req, nil
}

func encode[T any](env accountapi.Envelope[T]) (*structpb.Struct, error) {
	out, err := accountapi.ToStruct(env)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// reply turns a service error into an error envelope when it is a verdict the
// user should see, and into codes.Internal otherwise.
func reply[T any](ctx context.Context, s *GRPCServer, err error) (*structpb.Struct, error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		list := make([]accountapi.ValidationError, len(verrs))
		for i, v := range verrs {
			list[i] = accountapi.ValidationError{Field: v.Field, Message: v.Message}
		}
		return encode(accountapi.Invalid[T]("Please correct the highlighted fields", list))
	case errors.Is(err, services.ErrInvalidCredentials):
		return encode(accountapi.Failure[T]("Invalid credentials"))
	case errors.Is(err, common.ErrorNotFound):
		// only reachable with a valid token for a deleted account
		return encode(accountapi.Unauthorized[T]("Account not found"))
	case errors.Is(err, avatars.ErrDisabled):
		return encode(accountapi.Failure[T]("Avatar uploads are disabled"))
	}

	s.logger.Error(ctx, "request failed", "error", err)
	return nil, status.Error(codes.Internal, "internal error")
}

func toProfile(u *models.User) accountapi.Profile {
	return accountapi.Profile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.DisplayName,
		Stats: accountapi.Stats{
			TestsTaken:      u.Stats.TestsTaken,
			BestWPM:         u.Stats.BestWPM,
			AverageWPM:      u.Stats.AverageWPM,
			AverageAccuracy: u.Stats.AverageAccuracy,
		},
		Premium:   u.Premium,
		AvatarKey: u.AvatarKey,
		CreatedAt: u.CreatedAt,
	}
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[accountapi.RegisterRequest](in)
	if err != nil {
		return nil, err
	}

	u, token, err := s.users.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		return reply[accountapi.AuthPayload](ctx, s, err)
	}

	s.logger.Info(ctx, "Registered", "user", u.ID)
	return encode(accountapi.Success(accountapi.AuthPayload{Profile: toProfile(u), Token: token}))
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[accountapi.LoginRequest](in)
	if err != nil {
		return nil, err
	}

	u, token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return reply[accountapi.AuthPayload](ctx, s, err)
	}

	return encode(accountapi.Success(accountapi.AuthPayload{Profile: toProfile(u), Token: token}))
}

func (s *GRPCServer) FetchProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Profile(ctx, userID)
	if err != nil {
		return reply[accountapi.ProfilePayload](ctx, s, err)
	}

	return encode(accountapi.Success(accountapi.ProfilePayload{Profile: toProfile(u)}))
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req, err := decode[accountapi.UpdateProfileRequest](in)
	if err != nil {
		return nil, err
	}

	patch := services.ProfileUpdate{Name: req.Name, AvatarKey: req.AvatarKey}
	if r := req.Result; r != nil {
		patch.Result = &models.Score{WPM: r.WPM, Accuracy: r.Accuracy, DurationMs: r.DurationMs}
	}

	u, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return reply[accountapi.ProfilePayload](ctx, s, err)
	}

	return encode(accountapi.Success(accountapi.ProfilePayload{Profile: toProfile(u)}))
}

func (s *GRPCServer) RequestAvatarUpload(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key, url, err := s.users.AvatarUploadURL(ctx, userID)
	if err != nil {
		return reply[accountapi.AvatarUpload](ctx, s, err)
	}

	return encode(accountapi.Success(accountapi.AvatarUpload{Key: key, URL: url}))
}

func (s *GRPCServer) Leaderboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[accountapi.LeaderboardRequest](in)
	if err != nil {
		return nil, err
	}

	top, err := s.users.Leaderboard(ctx, req.Limit)
	if err != nil {
		return reply[accountapi.LeaderboardPayload](ctx, s, err)
	}

	entries := make([]accountapi.LeaderboardEntry, len(top))
	for i, e := range top {
		entries[i] = accountapi.LeaderboardEntry{Rank: e.Rank, UserID: e.UserID, Name: e.Name, BestWPM: e.BestWPM}
	}
	return encode(accountapi.Success(accountapi.LeaderboardPayload{Entries: entries}))
}
