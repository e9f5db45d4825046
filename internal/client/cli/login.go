package cli

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	errLoginDisabled   = errors.New("admin login is not configured")
	errInvalidPasscode = errors.New("invalid passcode")
)

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Login asks for the admin passcode and sets the admin flag when it matches
// the configured bcrypt hash.
func (a *App) Login(ctx context.Context) error {
	if a.config.AdminPasscodeHash == "" {
		a.notifier.Error("Admin login is not configured")
		return errLoginDisabled
	}

	passcode, err := GetPassword(a.out)
	if err != nil {
		a.log.Error(ctx, "failed to read passcode", "error", err)
		return err
	}
	defer wipe(passcode)

	if err := bcrypt.CompareHashAndPassword([]byte(a.config.AdminPasscodeHash), passcode); err != nil {
		a.log.Warn(ctx, "admin login rejected")
		a.notifier.Error("Invalid passcode")
		return errInvalidPasscode
	}

	if err := a.session.SetAdmin(ctx, true); err != nil {
		a.log.Error(ctx, "failed to store admin flag", "error", err)
		return err
	}
	a.notifier.Success("Logged in as admin")
	return nil
}

// Logout drops the admin flag.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
		return err
	}
	a.notifier.Info("Logged out")
	return nil
}
