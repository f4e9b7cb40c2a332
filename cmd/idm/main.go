package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-account/pkg/account"
	accountapi "github.com/tendant/simple-account/pkg/account/api"
	"github.com/tendant/simple-account/pkg/bootstrap"
	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/intake"
	intakeapi "github.com/tendant/simple-account/pkg/intake/api"
	"github.com/tendant/simple-account/pkg/profile"
	profileapi "github.com/tendant/simple-account/pkg/profile/api"
	"github.com/tendant/simple-account/pkg/role"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogConfig.SlogLevel(),
	}))
	slog.SetDefault(logger)

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

	result, err := bootstrap.BootstrapAdmin(ctx, bootstrap.AdminBootstrapConfig{
		AdminUsername:  cfg.AdminConfig.Username,
		AdminEmail:     cfg.AdminConfig.Email,
		AccountService: accountService,
	})
	if err != nil {
		slog.Error("Failed to bootstrap admin account", "err", err)
		os.Exit(1)
	}
	bootstrap.PrintBootstrapResult(os.Stdout, result)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)
	accountHandler := accountapi.NewAccountHandler(accountService)
	profileHandler := profileapi.NewProfileHandler(profile.NewProfileService(txManager.Repositories().Profiles))
	intakeHandler := intakeapi.NewIntakeHandler(intake.NewIntakeService(txManager.Repositories().Intakes))
	adminOnly := client.RequireRole(role.Admin.String())

	server := app.NewApp(app.WithPort(cfg.AppConfig.Port))
	app.RegisterHealthzRoutes(server.R)
	server.R.Handle("/metrics", promhttp.Handler())

	server.R.Route("/api/v1", func(r chi.Router) {
		r.Use(client.Verifier(tokenAuth))
		r.Use(client.OptionalAuthUserMiddleware)
		r.Mount("/", accountHandler.Routes(adminOnly))
		r.With(client.RequireAuth).Mount("/profiles", profileHandler.Routes(adminOnly))
		r.Mount("/intakes", intakeHandler.Routes(adminOnly))
	})

	slog.Info("Account service ready", "port", cfg.AppConfig.Port, "persistence", cfg.PersistenceConfig.Type)
	server.Run()
}
