package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/config"
)

// OpenTxManager builds the unit of work for the configured persistence type.
// The returned close func releases the database pool, if one was opened.
func OpenTxManager(ctx context.Context, cfg config.Config) (account.TxManager, func(), error) {
	persistence := cfg.PersistenceConfig
	repoConfig := account.RepositoryConfig{DataDir: persistence.DataDir}
	closeFn := func() {}

	if persistence.Type == "postgres" {
		dbConfig := cfg.DatabaseConfig.ToDbConfig()
		pool, err := dbutils.NewDbPool(ctx, dbConfig)
		if err != nil {
			slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repoConfig.DB = pool
		closeFn = pool.Close
		slog.Info("Database connected", "database", dbConfig.Database, "host", dbConfig.Host)
	}

	txManager, err := account.NewTxManager(persistence.Type, repoConfig)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	slog.Info("Account store ready", "persistence", persistence.Type)
	return txManager, closeFn, nil
}
