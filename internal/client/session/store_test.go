package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/client/credential"
	"github.com/dmitrijs2005/typetutor/internal/client/gateway"
	"github.com/dmitrijs2005/typetutor/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type fakeGateway struct {
	mu sync.Mutex

	loginEnv    accountapi.Envelope[accountapi.AuthPayload]
	loginErr    error
	registerEnv accountapi.Envelope[accountapi.AuthPayload]
	registerErr error
	profileEnv  accountapi.Envelope[accountapi.ProfilePayload]
	profileErr  error
	updateEnv   accountapi.Envelope[accountapi.ProfilePayload]
	updateErr   error

	lastLogin    accountapi.LoginRequest
	lastRegister accountapi.RegisterRequest
	lastUpdate   accountapi.UpdateProfileRequest
	profileCalls int
}

func (f *fakeGateway) Login(_ context.Context, req accountapi.LoginRequest) (accountapi.Envelope[accountapi.AuthPayload], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogin = req
	return f.loginEnv, f.loginErr
}

func (f *fakeGateway) Register(_ context.Context, req accountapi.RegisterRequest) (accountapi.Envelope[accountapi.AuthPayload], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRegister = req
	return f.registerEnv, f.registerErr
}

func (f *fakeGateway) FetchProfile(context.Context) (accountapi.Envelope[accountapi.ProfilePayload], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return f.profileEnv, f.profileErr
}

func (f *fakeGateway) UpdateProfile(_ context.Context, req accountapi.UpdateProfileRequest) (accountapi.Envelope[accountapi.ProfilePayload], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = req
	return f.updateEnv, f.updateErr
}

// countingStore wraps a MemoryStore and records writes.
type countingStore struct {
	*credential.MemoryStore
	sets, clears int
	getErr       error
	setErr       error
	clearErr     error
}

func newCountingStore(token string) *countingStore {
	return &countingStore{MemoryStore: credential.NewMemoryStore(token)}
}

func (c *countingStore) Get(ctx context.Context) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	return c.MemoryStore.Get(ctx)
}

func (c *countingStore) Set(ctx context.Context, token string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.MemoryStore.Set(ctx, token)
}

func (c *countingStore) Clear(ctx context.Context) error {
	c.clears++
	if c.clearErr != nil {
		return c.clearErr
	}
	return c.MemoryStore.Clear(ctx)
}

func (c *countingStore) stored(t *testing.T) (string, bool) {
	t.Helper()
	tok, ok, err := c.MemoryStore.Get(context.Background())
	require.NoError(t, err)
	return tok, ok
}

var ada = accountapi.Profile{ID: "u1", Email: "ada@x.com", Name: "Ada"}

func authOK(token string) accountapi.Envelope[accountapi.AuthPayload] {
	return accountapi.Success(accountapi.AuthPayload{Profile: ada, Token: token})
}

func newStore(gw gateway.Gateway, creds credential.Store) *Store {
	return NewStore(gw, creds, logging.Discard())
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

/*************
 * Initial state
 *************/

func TestNewStore_StartsInitializing(t *testing.T) {
	s := newStore(&fakeGateway{}, newCountingStore(""))

	snap := s.Snapshot()
	require.Equal(t, Initializing, snap.Status)
	require.Nil(t, snap.User)
	require.False(t, isClosed(s.Ready()))
}

/*************
 * Hydrate
 *************/

func TestHydrate_NoCredential(t *testing.T) {
	gw := &fakeGateway{}
	s := newStore(gw, newCountingStore(""))

	s.Hydrate(context.Background())

	snap := s.Snapshot()
	require.Equal(t, Ready, snap.Status)
	require.False(t, snap.IsAuthenticated())
	require.True(t, isClosed(s.Ready()))
	require.Zero(t, gw.profileCalls, "no network call without a credential")
}

func TestHydrate_AcceptedCredential(t *testing.T) {
	gw := &fakeGateway{profileEnv: accountapi.Success(accountapi.ProfilePayload{Profile: ada})}
	creds := newCountingStore("tok-123")
	s := newStore(gw, creds)

	s.Hydrate(context.Background())

	snap := s.Snapshot()
	require.Equal(t, Ready, snap.Status)
	require.True(t, snap.IsAuthenticated())
	require.Equal(t, ada, *snap.User)
	require.Equal(t, "Ada", snap.User.Name)

	tok, ok := creds.stored(t)
	require.True(t, ok)
	require.Equal(t, "tok-123", tok)
	require.Zero(t, creds.sets)
}

func TestHydrate_RejectedCredentialIsCleared(t *testing.T) {
	gw := &fakeGateway{profileEnv: accountapi.Failure[accountapi.ProfilePayload]("token expired")}
	creds := newCountingStore("tok-old")
	s := newStore(gw, creds)

	s.Hydrate(context.Background())

	snap := s.Snapshot()
	require.Equal(t, Ready, snap.Status)
	require.False(t, snap.IsAuthenticated())
	_, ok := creds.stored(t)
	require.False(t, ok)
}

func TestHydrate_TransportFailureClearsCredential(t *testing.T) {
	gw := &fakeGateway{profileErr: gateway.ErrUnavailable}
	creds := newCountingStore("tok-123")
	s := newStore(gw, creds)

	s.Hydrate(context.Background())

	require.Equal(t, Ready, s.Snapshot().Status)
	require.False(t, s.IsAuthenticated())
	_, ok := creds.stored(t)
	require.False(t, ok)
}

func TestHydrate_CredentialReadErrorSettlesAnonymous(t *testing.T) {
	gw := &fakeGateway{}
	creds := newCountingStore("tok-123")
	creds.getErr = errors.New("disk on fire")
	s := newStore(gw, creds)

	s.Hydrate(context.Background())

	require.Equal(t, Ready, s.Snapshot().Status)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, gw.profileCalls)
}

func TestHydrate_ClearFailureStillSettles(t *testing.T) {
	gw := &fakeGateway{profileEnv: accountapi.Failure[accountapi.ProfilePayload]("nope")}
	creds := newCountingStore("tok-123")
	creds.clearErr = errors.New("read-only")
	s := newStore(gw, creds)

	s.Hydrate(context.Background())

	require.Equal(t, Ready, s.Snapshot().Status)
	require.False(t, s.IsAuthenticated())
	require.Equal(t, 1, creds.clears)
}

func TestHydrate_RunsOnce(t *testing.T) {
	gw := &fakeGateway{profileEnv: accountapi.Success(accountapi.ProfilePayload{Profile: ada})}
	s := newStore(gw, newCountingStore("tok-123"))

	s.Hydrate(context.Background())
	s.Logout(context.Background())
	s.Hydrate(context.Background())

	require.Equal(t, 1, gw.profileCalls)
	require.False(t, s.IsAuthenticated(), "second hydrate must not restore anything")
	require.Equal(t, Ready, s.Snapshot().Status)
}

func TestHydrate_ConcurrentCallersWaitForFirst(t *testing.T) {
	gw := &fakeGateway{profileEnv: accountapi.Success(accountapi.ProfilePayload{Profile: ada})}
	s := newStore(gw, newCountingStore("tok-123"))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Hydrate(context.Background())
			assert.Equal(t, Ready, s.Snapshot().Status)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, gw.profileCalls)
}

func TestReady_UnblocksWaiter(t *testing.T) {
	s := newStore(&fakeGateway{}, newCountingStore(""))

	done := make(chan Snapshot)
	go func() {
		<-s.Ready()
		done <- s.Snapshot()
	}()

	s.Hydrate(context.Background())

	select {
	case snap := <-done:
		require.Equal(t, Ready, snap.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("Ready() was not closed")
	}
}

/*************
 * Login
 *************/

func TestLogin_Success(t *testing.T) {
	gw := &fakeGateway{loginEnv: authOK("tok-123")}
	creds := newCountingStore("")
	s := newStore(gw, creds)

	res := s.Login(context.Background(), "ada@x.com", "secret")

	require.Equal(t, Result{Success: true}, res)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "Ada", s.Snapshot().User.Name)
	require.Equal(t, accountapi.LoginRequest{Email: "ada@x.com", Password: "secret"}, gw.lastLogin)

	tok, ok := creds.stored(t)
	require.True(t, ok)
	require.Equal(t, "tok-123", tok)
	require.Equal(t, 1, creds.sets, "exactly one credential write")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	gw := &fakeGateway{loginEnv: accountapi.Failure[accountapi.AuthPayload]("Invalid credentials")}
	creds := newCountingStore("")
	s := newStore(gw, creds)

	res := s.Login(context.Background(), "ada@x.com", "wrongpass")

	require.Equal(t, Result{Success: false, Error: "Invalid credentials"}, res)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, creds.sets)
	_, ok := creds.stored(t)
	require.False(t, ok)
}

func TestLogin_RejectedWithoutMessage(t *testing.T) {
	gw := &fakeGateway{loginEnv: accountapi.Envelope[accountapi.AuthPayload]{Outcome: accountapi.OutcomeError}}
	s := newStore(gw, newCountingStore(""))

	res := s.Login(context.Background(), "ada@x.com", "x")
	require.Equal(t, MsgLoginFailed, res.Error)
	require.False(t, res.Success)
}

func TestLogin_NetworkFailureLeavesSessionUnchanged(t *testing.T) {
	gw := &fakeGateway{loginErr: gateway.ErrUnavailable}
	creds := newCountingStore("")
	s := newStore(gw, creds)

	res := s.Login(context.Background(), "ada@x.com", "secret")

	require.Equal(t, Result{Error: MsgNetworkError}, res)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, creds.sets)
}

func TestLogin_FailureKeepsExistingUser(t *testing.T) {
	gw := &fakeGateway{loginEnv: authOK("tok-1")}
	s := newStore(gw, newCountingStore(""))
	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)

	gw.loginEnv = accountapi.Failure[accountapi.AuthPayload]("Invalid credentials")
	res := s.Login(context.Background(), "ada@x.com", "wrong")

	require.False(t, res.Success)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "u1", s.Snapshot().User.ID)
}

func TestLogin_PersistFailureStillSucceeds(t *testing.T) {
	gw := &fakeGateway{loginEnv: authOK("tok-123")}
	creds := newCountingStore("")
	creds.setErr = errors.New("disk full")
	s := newStore(gw, creds)

	res := s.Login(context.Background(), "ada@x.com", "secret")

	require.True(t, res.Success)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, 1, creds.sets)
}

func TestLogin_DoesNotRequireHydration(t *testing.T) {
	s := newStore(&fakeGateway{loginEnv: authOK("tok-123")}, newCountingStore(""))

	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)
	require.Equal(t, Initializing, s.Snapshot().Status)
}

/*************
 * Register
 *************/

func TestRegister_Success(t *testing.T) {
	gw := &fakeGateway{registerEnv: authOK("tok-new")}
	creds := newCountingStore("")
	s := newStore(gw, creds)

	res := s.Register(context.Background(), "ada@x.com", "Ada", "secret123")

	require.True(t, res.Success)
	require.Empty(t, res.Error)
	require.Equal(t, accountapi.RegisterRequest{Email: "ada@x.com", Name: "Ada", Password: "secret123"}, gw.lastRegister)
	require.True(t, s.IsAuthenticated())
	tok, _ := creds.stored(t)
	require.Equal(t, "tok-new", tok)
	require.Equal(t, 1, creds.sets)
}

func TestRegister_ValidationMessageWins(t *testing.T) {
	gw := &fakeGateway{registerEnv: accountapi.Invalid[accountapi.AuthPayload]("validation failed", []accountapi.ValidationError{
		{Message: "Email already in use", Field: "email"},
	})}
	creds := newCountingStore("")
	s := newStore(gw, creds)

	res := s.Register(context.Background(), "ada@x.com", "Ada", "secret123")

	require.Equal(t, Result{Error: "Email already in use"}, res)
	require.False(t, s.IsAuthenticated())
	require.Zero(t, creds.sets)
}

func TestRegister_ErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  accountapi.Envelope[accountapi.AuthPayload]
		want string
	}{
		{
			name: "envelope message",
			env:  accountapi.Failure[accountapi.AuthPayload]("server busy"),
			want: "server busy",
		},
		{
			name: "fallback",
			env:  accountapi.Envelope[accountapi.AuthPayload]{Outcome: accountapi.OutcomeError},
			want: MsgRegistrationFailed,
		},
		{
			name: "first of several validation errors",
			env: accountapi.Invalid[accountapi.AuthPayload]("", []accountapi.ValidationError{
				{Field: "name", Message: "Name must be 2-32 characters"},
				{Field: "password", Message: "Password must be at least 8 characters"},
			}),
			want: "Name must be 2-32 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(&fakeGateway{registerEnv: tt.env}, newCountingStore(""))
			res := s.Register(context.Background(), "a@x.com", "A", "p")
			require.False(t, res.Success)
			require.Equal(t, tt.want, res.Error)
		})
	}
}

func TestRegister_NetworkFailure(t *testing.T) {
	s := newStore(&fakeGateway{registerErr: errors.New("rpc error: boom")}, newCountingStore(""))

	res := s.Register(context.Background(), "ada@x.com", "Ada", "secret123")
	require.Equal(t, Result{Error: MsgNetworkError}, res)
	require.False(t, s.IsAuthenticated())
}

/*************
 * Refresh
 *************/

// signedIn returns a store that has logged in as ada with token tok-123.
func signedIn(t *testing.T, gw *fakeGateway) (*Store, *countingStore) {
	t.Helper()
	gw.loginEnv = authOK("tok-123")
	creds := newCountingStore("")
	s := newStore(gw, creds)
	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)
	return s, creds
}

func TestRefresh_InstallsFreshProfile(t *testing.T) {
	gw := &fakeGateway{}
	s, creds := signedIn(t, gw)
	fresh := ada
	fresh.Stats = accountapi.Stats{TestsTaken: 4, BestWPM: 81}
	gw.profileEnv = accountapi.Success(accountapi.ProfilePayload{Profile: fresh})

	res := s.Refresh(context.Background())

	require.Equal(t, Result{Success: true}, res)
	require.Equal(t, 81.0, s.Snapshot().User.Stats.BestWPM)
	tok, ok := creds.stored(t)
	require.True(t, ok)
	require.Equal(t, "tok-123", tok)
}

func TestRefresh_RejectedCredentialEndsSession(t *testing.T) {
	gw := &fakeGateway{}
	s, creds := signedIn(t, gw)
	gw.profileEnv = accountapi.Unauthorized[accountapi.ProfilePayload]("Session expired, please log in again")

	res := s.Refresh(context.Background())

	require.False(t, res.Success)
	require.Equal(t, "Session expired, please log in again", res.Error)
	require.False(t, s.IsAuthenticated())
	_, ok := creds.stored(t)
	require.False(t, ok)
	require.Equal(t, 1, creds.clears)
}

func TestRefresh_RejectedWithoutMessage(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := signedIn(t, gw)
	gw.profileEnv = accountapi.Envelope[accountapi.ProfilePayload]{Outcome: accountapi.OutcomeError}

	res := s.Refresh(context.Background())
	require.Equal(t, MsgProfileFailed, res.Error)
	require.False(t, s.IsAuthenticated())
}

func TestRefresh_NetworkFailureKeepsSession(t *testing.T) {
	gw := &fakeGateway{}
	s, creds := signedIn(t, gw)
	gw.profileErr = gateway.ErrUnavailable

	res := s.Refresh(context.Background())

	require.Equal(t, Result{Error: MsgNetworkError}, res)
	require.True(t, s.IsAuthenticated())
	require.Zero(t, creds.clears)
}

/*************
 * UpdateProfile
 *************/

func TestUpdateProfile_InstallsReturnedProfile(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := signedIn(t, gw)
	renamed := ada
	renamed.Name = "Lovelace"
	gw.updateEnv = accountapi.Success(accountapi.ProfilePayload{Profile: renamed})

	name := "Lovelace"
	res := s.UpdateProfile(context.Background(), accountapi.UpdateProfileRequest{Name: &name})

	require.Equal(t, Result{Success: true}, res)
	require.Equal(t, "Lovelace", s.Snapshot().User.Name)
	require.Equal(t, "Lovelace", *gw.lastUpdate.Name)
}

func TestUpdateProfile_UnauthenticatedEndsSession(t *testing.T) {
	gw := &fakeGateway{}
	s, creds := signedIn(t, gw)
	gw.updateEnv = accountapi.Unauthorized[accountapi.ProfilePayload]("Session expired, please log in again")

	name := "Lovelace"
	res := s.UpdateProfile(context.Background(), accountapi.UpdateProfileRequest{Name: &name})

	require.False(t, res.Success)
	require.Equal(t, "Session expired, please log in again", res.Error)
	require.False(t, s.IsAuthenticated())
	_, ok := creds.stored(t)
	require.False(t, ok)
}

func TestUpdateProfile_ValidationKeepsSession(t *testing.T) {
	gw := &fakeGateway{}
	s, creds := signedIn(t, gw)
	gw.updateEnv = accountapi.Invalid[accountapi.ProfilePayload]("Please correct the highlighted fields", []accountapi.ValidationError{
		{Field: "name", Message: "Name must be 2-32 characters"},
	})

	name := "L"
	res := s.UpdateProfile(context.Background(), accountapi.UpdateProfileRequest{Name: &name})

	require.Equal(t, "Name must be 2-32 characters", res.Error)
	require.Equal(t, "Ada", s.Snapshot().User.Name)
	require.Zero(t, creds.clears)
}

func TestUpdateProfile_NetworkFailureKeepsSession(t *testing.T) {
	gw := &fakeGateway{updateErr: errors.New("rpc error: boom")}
	s, _ := signedIn(t, gw)

	name := "Lovelace"
	res := s.UpdateProfile(context.Background(), accountapi.UpdateProfileRequest{Name: &name})

	require.Equal(t, Result{Error: MsgNetworkError}, res)
	require.Equal(t, "Ada", s.Snapshot().User.Name)
}

/*************
 * Logout
 *************/

func TestLogout_ClearsEverything(t *testing.T) {
	gw := &fakeGateway{loginEnv: authOK("tok-123")}
	creds := newCountingStore("")
	s := newStore(gw, creds)
	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)

	s.Logout(context.Background())

	require.False(t, s.IsAuthenticated())
	_, ok := creds.stored(t)
	require.False(t, ok)
}

func TestLogout_Idempotent(t *testing.T) {
	creds := newCountingStore("")
	s := newStore(&fakeGateway{}, creds)
	s.Hydrate(context.Background())

	s.Logout(context.Background())
	first := s.Snapshot()
	s.Logout(context.Background())
	second := s.Snapshot()

	require.Equal(t, first, second)
	require.Equal(t, Ready, second.Status)
	require.Nil(t, second.User)
}

func TestLogout_ClearFailureStillSignsOut(t *testing.T) {
	creds := newCountingStore("")
	s := newStore(&fakeGateway{loginEnv: authOK("tok-123")}, creds)
	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)
	creds.clearErr = errors.New("locked")

	s.Logout(context.Background())

	require.False(t, s.IsAuthenticated())
}

/*************
 * Snapshot
 *************/

func TestSnapshot_IsACopy(t *testing.T) {
	s := newStore(&fakeGateway{loginEnv: authOK("tok-123")}, newCountingStore(""))
	require.True(t, s.Login(context.Background(), "ada@x.com", "secret").Success)

	snap := s.Snapshot()
	snap.User.Name = "mutated"

	require.Equal(t, "Ada", s.Snapshot().User.Name)
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "initializing", Initializing.String())
	require.Equal(t, "ready", Ready.String())
}
