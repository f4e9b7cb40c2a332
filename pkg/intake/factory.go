package intake

import "fmt"

// RepositoryConfig contains configuration for creating an intake repository
type RepositoryConfig struct {
	// DB is required for PostgreSQL repositories
	DB DBTX
	// DataDir is required for file-based repositories
	DataDir string
}

// NewIntakeRepository creates a new intake repository based on the persistence type
func NewIntakeRepository(persistenceType string, config RepositoryConfig) (IntakeRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresIntakeRepository(config.DB), nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileIntakeRepository(config.DataDir)
	case "memory", "":
		return NewInMemoryIntakeRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, file, memory)", persistenceType)
	}
}
