package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/client/credential"
	"github.com/dmitrijs2005/typetutor/internal/client/gateway"
	"github.com/dmitrijs2005/typetutor/internal/logging"
)

// User-facing messages for failures the server did not explain.
const (
	MsgLoginFailed        = "login failed"
	MsgRegistrationFailed = "registration failed"
	MsgNetworkError       = "network error, please try again"
	MsgProfileFailed      = "could not load profile"
	MsgUpdateFailed       = "update failed"
)

// Status tracks whether the first hydration attempt has settled.
type Status int

const (
	Initializing Status = iota
	Ready
)

func (s Status) String() string {
	if s == Ready {
		return "ready"
	}
	return "initializing"
}

// Snapshot is a consistent read of the session.
type Snapshot struct {
	User   *accountapi.Profile
	Status Status
}

func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}

// Result is the outcome of a session operation. Error is set only when Success
// is false.
type Result struct {
	Success bool
	Error   string
}

// Store owns the signed-in user and the persisted credential. It is safe for
// concurrent use.
type Store struct {
	gateway gateway.Gateway
	creds   credential.Store
	log     logging.Logger

	mu     sync.RWMutex
	user   *accountapi.Profile
	status Status

	hydrateOnce sync.Once
	ready       chan struct{}
}

// NewStore returns a Store in the Initializing state. Call Hydrate to restore
// a previous session.
func NewStore(gw gateway.Gateway, creds credential.Store, log logging.Logger) *Store {
	return &Store{
		gateway: gw,
		creds:   creds,
		log:     log.With("module", "session"),
		ready:   make(chan struct{}),
	}
}

// Hydrate restores the user from the persisted credential. Only the first
// call does anything; later calls return once that first one has finished.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer s.markReady(ctx)
		s.hydrate(ctx)
	})
}

func (s *Store) hydrate(ctx context.Context) {
	token, ok, err := s.creds.Get(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading stored credential failed", "error", err)
		return
	}
	if !ok || token == "" {
		s.log.Info(ctx, "no stored credential")
		return
	}

	env, err := s.gateway.FetchProfile(ctx)
	if err != nil {
		s.log.Warn(ctx, "profile fetch failed, discarding credential", "error", err)
		s.clearCredential(ctx)
		return
	}
	if !env.OK() {
		s.log.Info(ctx, "stored credential rejected", "reason", env.Message)
		s.clearCredential(ctx)
		return
	}

	s.setUser(env.Payload.Profile)
	s.log.Info(ctx, "session restored", "user_id", env.Payload.Profile.ID)
}

func (s *Store) markReady(ctx context.Context) {
	s.mu.Lock()
	s.status = Ready
	authenticated := s.user != nil
	s.mu.Unlock()

	close(s.ready)
	s.log.Debug(ctx, "session ready", "authenticated", authenticated)
}

// Ready is closed once the first hydration attempt has settled.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns a copy of the current user and status.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Status: s.status}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

func (s *Store) Login(ctx context.Context, identifier, secret string) Result {
	env, err := s.gateway.Login(ctx, accountapi.LoginRequest{Email: identifier, Password: secret})
	if err != nil {
		s.log.Warn(ctx, "login request failed", "error", err)
		return Result{Error: MsgNetworkError}
	}
	if !env.OK() {
		s.log.Info(ctx, "login rejected", "reason", env.Message)
		return Result{Error: firstNonEmpty(env.Message, MsgLoginFailed)}
	}

	s.establish(ctx, env.Payload)
	s.log.Info(ctx, "logged in", "user_id", env.Payload.Profile.ID)
	return Result{Success: true}
}

func (s *Store) Register(ctx context.Context, identifier, displayName, secret string) Result {
	env, err := s.gateway.Register(ctx, accountapi.RegisterRequest{
		Email:    identifier,
		Name:     displayName,
		Password: secret,
	})
	if err != nil {
		s.log.Warn(ctx, "register request failed", "error", err)
		return Result{Error: MsgNetworkError}
	}
	if !env.OK() {
		s.log.Info(ctx, "registration rejected", "reason", env.Message, "validation_errors", len(env.ValidationErrors))
		return Result{Error: firstNonEmpty(env.FirstValidationMessage(), env.Message, MsgRegistrationFailed)}
	}

	s.establish(ctx, env.Payload)
	s.log.Info(ctx, "registered", "user_id", env.Payload.Profile.ID)
	return Result{Success: true}
}

// Refresh reloads the profile for the stored credential. A rejected credential
// ends the session; a transport failure leaves it untouched.
func (s *Store) Refresh(ctx context.Context) Result {
	env, err := s.gateway.FetchProfile(ctx)
	if err != nil {
		s.log.Warn(ctx, "profile refresh failed", "error", err)
		return Result{Error: MsgNetworkError}
	}
	if !env.OK() {
		s.log.Info(ctx, "credential rejected on refresh", "reason", env.Message)
		s.drop(ctx)
		return Result{Error: firstNonEmpty(env.Message, MsgProfileFailed)}
	}

	s.setUser(env.Payload.Profile)
	return Result{Success: true}
}

// UpdateProfile applies a patch and installs the profile the server returns.
// Validation failures keep the session; an unauthenticated verdict ends it.
func (s *Store) UpdateProfile(ctx context.Context, req accountapi.UpdateProfileRequest) Result {
	env, err := s.gateway.UpdateProfile(ctx, req)
	if err != nil {
		s.log.Warn(ctx, "profile update failed", "error", err)
		return Result{Error: MsgNetworkError}
	}
	if !env.OK() {
		if env.Unauthenticated() {
			s.log.Info(ctx, "credential rejected on update", "reason", env.Message)
			s.drop(ctx)
		}
		return Result{Error: firstNonEmpty(env.FirstValidationMessage(), env.Message, MsgUpdateFailed)}
	}

	s.setUser(env.Payload.Profile)
	return Result{Success: true}
}

// Logout forgets the user locally. The server is not told.
func (s *Store) Logout(ctx context.Context) {
	s.drop(ctx)
	s.log.Info(ctx, "logged out")
}

func (s *Store) drop(ctx context.Context) {
	s.clearCredential(ctx)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// establish persists the token and installs the profile. A failed write is
// logged; the user stays signed in for this process.
func (s *Store) establish(ctx context.Context, p accountapi.AuthPayload) {
	if err := s.creds.Set(ctx, p.Token); err != nil {
		s.log.Error(ctx, "persisting credential failed", "error", err)
	}
	s.setUser(p.Profile)
}

func (s *Store) setUser(p accountapi.Profile) {
	s.mu.Lock()
	s.user = &p
	s.mu.Unlock()
}

func (s *Store) clearCredential(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error(ctx, "clearing credential failed", "error", err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
