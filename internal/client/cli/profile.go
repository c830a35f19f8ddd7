package cli

import (
	"context"
	"os"

	"invoicer/internal/common"
)

// Passwd prompts for a new password and rotates it on the server. The auth
// service stores the fresh token issued in exchange, so the session stays
// valid after the change.
func (a *App) Passwd(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return common.ErrNotAuthenticated
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.UpdatePassword(ctx, string(password)); err != nil {
		printlnFn("Password change failed")
		return err
	}

	printlnFn("Success!")
	return nil
}

// Unregister deletes the account on the server after an explicit
// confirmation, then logs out locally.
func (a *App) Unregister(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return common.ErrNotAuthenticated
	}

	answer, err := getSimpleText(a.reader, "Delete account and all uploaded files? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		printlnFn("Account deletion failed")
		return err
	}

	return a.Logout(ctx)
}
