// Package cli provides the interactive TypeTutor terminal client.
//
// It wires configuration, the credential store, the account gateway and the
// session store, hydrates the session, then runs a REPL. Commands:
//   - register / login / logout / whoami
//   - profile, rename <name>, avatar <file>
//   - practice (timed typing run; saved to the profile when signed in)
//   - top (leaderboard)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
