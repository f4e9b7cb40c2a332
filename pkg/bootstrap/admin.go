package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/role"
)

// AdminBootstrapConfig describes the administrator account to ensure at startup
type AdminBootstrapConfig struct {
	// Admin user (from ADMIN_USERNAME, ADMIN_EMAIL)
	AdminUsername string
	AdminEmail    string

	AccountService *account.AccountService
}

// AdminBootstrapResult contains the result of the admin bootstrap
type AdminBootstrapResult struct {
	Account     account.Account
	UserCreated bool // false if the account already existed
}

// BootstrapAdmin creates the administrator account unless one with the same
// username already exists. Nothing happens when no username is configured.
func BootstrapAdmin(ctx context.Context, cfg AdminBootstrapConfig) (*AdminBootstrapResult, error) {
	if cfg.AdminUsername == "" {
		slog.Debug("No admin username configured - skipping admin bootstrap")
		return &AdminBootstrapResult{}, nil
	}
	if cfg.AccountService == nil {
		return nil, fmt.Errorf("invalid bootstrap configuration: AccountService is required")
	}

	existing, ok, err := cfg.AccountService.GetUserByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin account: %w", err)
	}
	if ok {
		slog.Info("Admin account already exists - skipping admin bootstrap", "username", existing.Username)
		return &AdminBootstrapResult{Account: existing}, nil
	}

	created, err := cfg.AccountService.CreateAccount(ctx, account.Account{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Roles:    []role.Role{{Name: role.Admin}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.Info("Admin bootstrap completed", "username", created.Username, "roles", created.RoleNames())
	return &AdminBootstrapResult{Account: created, UserCreated: true}, nil
}
