// Package client contains the transport and local persistence bootstrap of
// the letterpress editor.
//
// Client is the contract of the newsletter REST API and HTTPClient its
// implementation. Every authenticated call carries a bearer token from a
// TokenSource. Failures are mapped onto the sentinel errors of package
// common: 401 and 403 become common.ErrAuthRejected, any other failure
// common.ErrNetworkFailure (with the server's message when it sent one), and
// an expired context common.ErrTimeout.
//
// InitDatabase and RunMigrations open the local SQLite database and apply the
// embedded goose migrations; NewRepositories wires the stores on top of it.
package client
