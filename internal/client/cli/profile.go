package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/client/session"
)

const leaderboardSize = 10

// Profile refreshes the session's profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	wasIn := a.isLoggedIn()
	res := a.session.Refresh(ctx)
	if !res.Success {
		a.reportFailure("Could not load profile", res, wasIn)
		return nil
	}
	a.printProfile(*a.session.Snapshot().User)
	return nil
}

func (a *App) printProfile(p accountapi.Profile) {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", p.Name)
	fmt.Fprintf(&b, "Email:     %s\n", p.Email)
	if p.Premium {
		b.WriteString("Plan:      premium\n")
	} else {
		b.WriteString("Plan:      free\n")
	}
	fmt.Fprintf(&b, "Tests:     %d\n", p.Stats.TestsTaken)
	fmt.Fprintf(&b, "Best WPM:  %.1f\n", p.Stats.BestWPM)
	fmt.Fprintf(&b, "Avg WPM:   %.1f\n", p.Stats.AverageWPM)
	fmt.Fprintf(&b, "Accuracy:  %.1f%%\n", p.Stats.AverageAccuracy)
	if p.AvatarKey != "" {
		fmt.Fprintf(&b, "Avatar:    %s\n", p.AvatarKey)
	}
	fmt.Fprint(a.out, b.String())
}

func (a *App) Rename(ctx context.Context, name string) error {
	p, ok := a.updateProfile(ctx, accountapi.UpdateProfileRequest{Name: &name})
	if !ok {
		return nil
	}
	fmt.Fprintf(a.out, "Display name is now %s\n", p.Name)
	return nil
}

// Avatar uploads the image at path to storage and attaches it to the profile.
func (a *App) Avatar(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	head := make([]byte, 512)
	n, _ := f.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		fmt.Fprintf(a.out, "%s is not an image (%s)\n", path, contentType)
		return nil
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	target, err := a.account.RequestAvatarUpload(ctx)
	if err != nil {
		a.log.Warn(ctx, "avatar upload request failed", "error", err)
		fmt.Fprintln(a.out, session.MsgNetworkError)
		return nil
	}
	if !target.OK() {
		fmt.Fprintf(a.out, "Avatar upload refused: %s\n", target.Message)
		return nil
	}

	if err := a.upload(ctx, target.Payload.URL, contentType, f, fi.Size()); err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}

	key := target.Payload.Key
	if _, ok := a.updateProfile(ctx, accountapi.UpdateProfileRequest{AvatarKey: &key}); !ok {
		return nil
	}
	fmt.Fprintln(a.out, "Avatar updated.")
	return nil
}

func (a *App) Top(ctx context.Context) error {
	env, err := a.account.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		a.log.Warn(ctx, "leaderboard failed", "error", err)
		fmt.Fprintln(a.out, session.MsgNetworkError)
		return nil
	}
	if !env.OK() {
		fmt.Fprintf(a.out, "Leaderboard unavailable: %s\n", env.Message)
		return nil
	}
	if len(env.Payload.Entries) == 0 {
		fmt.Fprintln(a.out, "No scores yet.")
		return nil
	}
	for _, e := range env.Payload.Entries {
		fmt.Fprintf(a.out, "%2d. %-20s %6.1f WPM\n", e.Rank, e.Name, e.BestWPM)
	}
	return nil
}

// updateProfile sends a patch through the session and prints any failure.
// ok is false when the caller should stop.
func (a *App) updateProfile(ctx context.Context, req accountapi.UpdateProfileRequest) (accountapi.Profile, bool) {
	wasIn := a.isLoggedIn()
	res := a.session.UpdateProfile(ctx, req)
	if !res.Success {
		a.reportFailure("Update failed", res, wasIn)
		return accountapi.Profile{}, false
	}
	return *a.session.Snapshot().User, true
}

// reportFailure prints a failed session result and tells the user when the
// server ended their session.
func (a *App) reportFailure(prefix string, res session.Result, wasIn bool) {
	if res.Error == session.MsgNetworkError {
		fmt.Fprintln(a.out, res.Error)
		return
	}
	fmt.Fprintf(a.out, "%s: %s\n", prefix, res.Error)
	if wasIn && !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You have been logged out.")
	}
}
