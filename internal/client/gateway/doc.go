// Package gateway is the client side of the account service.
//
// Every call answers with an accountapi.Envelope when the server reached a
// verdict, or with an error when it could not be reached at all. Callers
// must treat the two differently: a verdict is the user's problem, an error
// is the network's.
package gateway
