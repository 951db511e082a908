package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
	"github.com/dmitrijs2005/typetutor/internal/client/practice"
)

// Practice runs one timed typing test. Signed-in users get the result saved
// to their profile.
func (a *App) Practice(ctx context.Context) error {
	target := practice.Pick(a.rand)

	fmt.Fprintln(a.out, "Type the following line and press Enter:")
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "    %s\n\n", target)

	start := a.now()
	typed, err := getSimpleText(a.reader, "Go!", a.out)
	if err != nil {
		return err
	}
	res := practice.Score(target, typed, a.now().Sub(start))

	fmt.Fprintf(a.out, "%.1f WPM, %.1f%% accuracy (%d/%d correct)\n", res.WPM, res.Accuracy, res.Correct, res.Total)

	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in to keep your scores.")
		return nil
	}

	wire := res.Wire()
	p, ok := a.updateProfile(ctx, accountapi.UpdateProfileRequest{Result: &wire})
	if !ok {
		return nil
	}
	fmt.Fprintf(a.out, "Saved. Personal best: %.1f WPM over %d tests\n", p.Stats.BestWPM, p.Stats.TestsTaken)
	return nil
}
