package cli

import (
	"context"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// promptLine and promptSecret are swapped in tests.
var (
	promptLine   = ReadLine
	promptSecret = ReadSecret
)

// Login prompts for an email and password and signs in. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := promptLine(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := promptSecret(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.sessions.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	a.userName = sess.Email
	a.printf("Signed in as %s", sess.Email)
	return nil
}

// Logout forgets the session. The open document stays on screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.printf("Signed out")
	return nil
}

// Notify turns err into a one-line message. Auth failures also end the
// session and ask the user to sign in again.
func (a *App) Notify(ctx context.Context, err error) {
	if err == nil {
		return
	}
	a.printf("Error: %s", err)
	a.log.Debug(ctx, "command failed", "error", err)

	if !common.IsAuth(err) {
		return
	}
	if serr := a.sessions.SignOut(ctx); serr != nil {
		a.log.Warn(ctx, "sign out failed", "error", serr)
	}
	a.userName = ""
	a.printf("Please sign in.")
	if lerr := a.Login(ctx); lerr != nil {
		a.printf("Error: %s", lerr)
	}
}
