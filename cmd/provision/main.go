package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/bootstrap"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

func main() {
	username := flag.String("username", "", "Username for the new account (required)")
	email := flag.String("email", "", "Email for the new account")
	roles := flag.String("roles", "", "Comma-separated roles, e.g. ROLE_LECTURER (default ROLE_STUDENT)")
	firstName := flag.String("first-name", "", "Profile first name")
	lastName := flag.String("last-name", "", "Profile last name")
	intakeName := flag.String("intake-name", "", "Intake name; creates the intake when the code is new")
	intakeCode := flag.String("intake-code", "", "Intake code; links the account to an existing intake")
	flag.Parse()

	if *username == "" {
		fmt.Println("Error: username is required")
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	txManager, closeStore, err := bootstrap.OpenTxManager(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open account store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	hasher, err := cfg.PasswordConfig.Hasher()
	if err != nil {
		slog.Error("Failed to create password hasher", "err", err)
		os.Exit(1)
	}
	accountService := account.NewAccountService(txManager, hasher)

	candidate := account.Account{
		Username: *username,
		Email:    *email,
		Roles:    parseRoles(*roles),
	}
	if *firstName != "" || *lastName != "" {
		candidate.Profile = &profile.Profile{FirstName: *firstName, LastName: *lastName}
	}
	if *intakeCode != "" {
		in, err := resolveIntake(ctx, intake.NewIntakeService(txManager.Repositories().Intakes), *intakeName, *intakeCode)
		if err != nil {
			slog.Error("Failed to resolve intake", "err", err, "code", *intakeCode)
			closeStore()
			os.Exit(1)
		}
		candidate.Intake = &in
	}

	created, err := accountService.CreateAccount(ctx, candidate)
	if err != nil {
		slog.Error("Failed to create account", "err", err)
		closeStore()
		os.Exit(1)
	}

	slog.Info("Account provisioned", "id", created.ID, "username", created.Username, "roles", created.RoleNames())
}

func parseRoles(raw string) []role.Role {
	var roles []role.Role
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		roles = append(roles, role.Role{Name: role.Name(name)})
	}
	return roles
}

// resolveIntake returns the intake with code, creating it only when a name is given
func resolveIntake(ctx context.Context, svc *intake.IntakeService, name, code string) (intake.Intake, error) {
	in, ok, err := svc.GetIntakeByCode(ctx, code)
	if err != nil {
		return intake.Intake{}, err
	}
	if ok {
		return in, nil
	}
	if name == "" {
		return intake.Intake{}, fmt.Errorf("intake %s does not exist; pass -intake-name to create it", code)
	}
	return svc.CreateIntake(ctx, name, code)
}
