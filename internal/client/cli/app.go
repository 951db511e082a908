package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/client/config"
	"github.com/dmitrijs2005/typetutor/internal/client/credential"
	"github.com/dmitrijs2005/typetutor/internal/client/gateway"
	"github.com/dmitrijs2005/typetutor/internal/client/localdb"
	"github.com/dmitrijs2005/typetutor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/typetutor/internal/client/session"
	"github.com/dmitrijs2005/typetutor/internal/filex"
	"github.com/dmitrijs2005/typetutor/internal/logging"
	"github.com/dmitrijs2005/typetutor/internal/netx"
)

// accountClient covers the account calls that do not touch the session.
type accountClient interface {
	RequestAvatarUpload(ctx context.Context) (accountapi.Envelope[accountapi.AvatarUpload], error)
	Leaderboard(ctx context.Context, limit int) (accountapi.Envelope[accountapi.LeaderboardPayload], error)
}

type uploadFunc func(ctx context.Context, url, contentType string, body io.Reader, size int64) error

type App struct {
	config  *config.Config
	session *session.Store
	account accountClient
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	upload uploadFunc
	now    func() time.Time
	rand   *rand.Rand

	closers []func() error
}

// NewApp opens the configured credential store, connects the gateway and
// builds the session store. Nothing is sent over the network yet.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	creds, closeCreds, err := openCredentialStore(ctx, c)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.NewGRPCGateway(c.ServerEndpointAddr, creds, c.RequestTimeout, log)
	if err != nil {
		_ = closeCreds()
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}
	upload := func(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
		return netx.UploadToPresignedURL(ctx, httpClient, url, contentType, body, size)
	}

	a := newApp(session.NewStore(gw, creds, log), gw, os.Stdin, os.Stdout, log)
	a.config = c
	a.upload = upload
	a.closers = []func() error{gw.Close, closeCreds}
	return a, nil
}

func newApp(s *session.Store, account accountClient, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		session: s,
		account: account,
		log:     log.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		now:     time.Now,
		rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

func openCredentialStore(ctx context.Context, c *config.Config) (credential.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.CredentialStore {
	case config.StoreMemory:
		return credential.NewMemoryStore(""), noop, nil

	case config.StoreBolt:
		path, err := filex.EnsureParentDir(c.CredentialPath())
		if err != nil {
			return nil, nil, err
		}
		s, err := credential.OpenBoltStore(path, nil)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.StoreSQLite:
		path, err := filex.EnsureParentDir(c.CredentialPath())
		if err != nil {
			return nil, nil, err
		}
		db, err := localdb.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return credential.NewSQLiteStore(metadata.NewSQLiteRepository(db)), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
}

// Run hydrates the session and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	fmt.Fprintln(a.out, "Welcome to TypeTutor (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) start(ctx context.Context) {
	a.session.Hydrate(ctx)
	<-a.session.Ready()

	if snap := a.session.Snapshot(); snap.IsAuthenticated() {
		fmt.Fprintf(a.out, "Welcome back, %s\n", snap.User.Name)
	} else {
		fmt.Fprintln(a.out, "Not logged in")
	}
}

func (a *App) close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated()
}

func (a *App) getStatus() string {
	if snap := a.session.Snapshot(); snap.IsAuthenticated() {
		return fmt.Sprintf("(%s)", snap.User.Name)
	}
	return ""
}
