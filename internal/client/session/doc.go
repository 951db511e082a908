// Package session holds the signed-in user of a running client.
//
// A Store starts Initializing and becomes Ready once, after Hydrate has tried
// to restore the user from the persisted credential. Login, Register and
// Logout move it between authenticated and anonymous. No operation returns an
// error: failures resolve to a well-defined session plus, for Login and
// Register, a Result the caller can show.
package session
