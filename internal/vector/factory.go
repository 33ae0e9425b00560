package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Config selects and configures a vector store backend.
type Config struct {
	Backend     string `mapstructure:"backend" yaml:"backend"`           // "embedded" or "sqlite"
	StoragePath string `mapstructure:"storage_path" yaml:"storage_path"` // sqlite only
	Dimensions  int    `mapstructure:"dimensions" yaml:"dimensions"`
}

// New creates a vector store from config.
// Backends:
//   - "embedded" (default): in-memory, non-persistent
//   - "sqlite": persistent, survives restarts
func New(cfg Config) (Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dimensions))
	}

	switch cfg.Backend {
	case "embedded", "":
		return NewEmbeddedStore(cfg.Dimensions), nil

	case "sqlite":
		if cfg.StoragePath == "" {
			return nil, types.NewError(ErrCodeInvalidConfig,
				"storage_path is required for sqlite backend")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
			return nil, types.WrapError(ErrCodeStoreFailed,
				"failed to create storage directory", err)
		}
		return NewSqliteStore(SqliteConfig{
			DBPath: cfg.StoragePath,
			Dims:   cfg.Dimensions,
		})

	default:
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown vector store backend %q - must be 'embedded' or 'sqlite'", cfg.Backend))
	}
}
