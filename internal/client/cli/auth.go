package cli

import (
	"context"
	"os"

	"invoicer/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account via the session service. A successful registration
// logs the user straight in and opens the channel.
//
// Failures are reported to the user as a notice; the underlying error is
// returned for logging. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, username, string(password)); err != nil {
		printlnFn("Register Failed")
		return err
	}

	printlnFn("Success!")
	if err := a.connect(ctx); err != nil {
		a.log.Warn(ctx, "channel connection failed", "error", err)
	}
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success it persists the credential pair locally and opens the channel.
// On failure it prints a notice and leaves the session untouched.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, username, string(password)); err != nil {
		printlnFn("Login Failed")
		return err
	}

	printlnFn("Success!")
	if err := a.connect(ctx); err != nil {
		a.log.Warn(ctx, "channel connection failed", "error", err)
	}
	return nil
}

// Logout closes the channel, clears the persisted credential pair, and
// resets the in-memory session.
func (a *App) Logout(ctx context.Context) error {
	a.disconnect()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}
