package account

import (
	"fmt"

	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// RepositoryConfig contains configuration for creating the account stores
type RepositoryConfig struct {
	// DB is required for PostgreSQL repositories
	DB TxBeginner
	// DataDir is required for file-based repositories
	DataDir string
}

// NewTxManager builds the stores for the persistence type and the unit of
// work that runs over them.
func NewTxManager(persistenceType string, config RepositoryConfig) (TxManager, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresTxManager(config.DB), nil
	case "file", "memory", "":
		repos, err := NewAccountRepositories(persistenceType, config)
		if err != nil {
			return nil, err
		}
		return NewLockingTxManager(repos), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, file, memory)", persistenceType)
	}
}

// NewAccountRepositories creates the account, role, profile and intake
// repositories for the persistence type
func NewAccountRepositories(persistenceType string, config RepositoryConfig) (Repositories, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return Repositories{}, fmt.Errorf("db required for postgres repository")
		}
		return postgresRepositories(config.DB), nil
	case "file":
		return newFileRepositories(config.DataDir)
	case "memory", "":
		return Repositories{
			Accounts: NewInMemoryAccountRepository(),
			Roles:    role.NewInMemoryRoleRepository(),
			Profiles: profile.NewInMemoryProfileRepository(),
			Intakes:  intake.NewInMemoryIntakeRepository(),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unsupported persistence type: %s (supported: postgres, file, memory)", persistenceType)
	}
}

func newFileRepositories(dataDir string) (Repositories, error) {
	if dataDir == "" {
		return Repositories{}, fmt.Errorf("dataDir required for file repository")
	}

	accounts, err := NewFileAccountRepository(dataDir)
	if err != nil {
		return Repositories{}, err
	}
	roles, err := role.NewFileRoleRepository(dataDir)
	if err != nil {
		return Repositories{}, err
	}
	profiles, err := profile.NewFileProfileRepository(dataDir)
	if err != nil {
		return Repositories{}, err
	}
	intakes, err := intake.NewFileIntakeRepository(dataDir)
	if err != nil {
		return Repositories{}, err
	}

	return Repositories{
		Accounts: accounts,
		Roles:    roles,
		Profiles: profiles,
		Intakes:  intakes,
	}, nil
}
