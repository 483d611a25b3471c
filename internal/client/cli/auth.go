package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/folio/internal/common"
)

// getSimpleText, getPassword and confirm are indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Login prompts for email and password and authenticates against the API.
// The password buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.api.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login unsuccessful: %w", err)
	}
	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the session tokens.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
