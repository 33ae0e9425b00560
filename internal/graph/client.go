package graph

import (
	"context"
	"time"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Client provides access to the triage knowledge graph.
// Implementations must be safe for concurrent use.
type Client interface {
	// Connect establishes a connection to the graph database.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	Close(ctx context.Context) error

	// Health returns the current health status of the connection.
	Health(ctx context.Context) types.HealthStatus

	// Query executes a Cypher query in a read transaction.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Write executes a Cypher statement in a write transaction.
	Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// CreateNode creates a node with the given label and properties and
	// returns its database element ID. Properties are merged additively:
	// repeated creation with the same label never removes existing keys.
	CreateNode(ctx context.Context, label string, props map[string]any) (string, error)

	// CreateRelationship creates a typed relationship between two nodes
	// identified by their element IDs. Both nodes must already exist.
	CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error
}

// QueryResult holds the rows and execution metadata of a Cypher query.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	ExecutionTime        time.Duration
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// Config contains connection options for graph database clients.
type Config struct {
	// URI is the bolt connection URI, e.g. "bolt://localhost:7687".
	// Use bolt+s:// for TLS, neo4j:// for routing.
	URI string `mapstructure:"uri" yaml:"uri" validate:"required"`

	// Username for authentication.
	Username string `mapstructure:"username" yaml:"username" validate:"required"`

	// Password for authentication.
	Password string `mapstructure:"password" yaml:"password" validate:"required"`

	// Database name. Empty uses the server default.
	Database string `mapstructure:"database" yaml:"database"`

	// MaxConnectionPoolSize limits the driver connection pool.
	// Zero or negative uses the driver default.
	MaxConnectionPoolSize int `mapstructure:"max_connection_pool_size" yaml:"max_connection_pool_size"`

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout"`

	// MaxTransactionRetryTime is the maximum time to retry failed transactions.
	MaxTransactionRetryTime time.Duration `mapstructure:"max_transaction_retry_time" yaml:"max_transaction_retry_time"`
}

// DefaultConfig returns a Config with local development defaults.
func DefaultConfig() Config {
	return Config{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		Password:                "password",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
	}
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeInvalidConfig, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.MaxTransactionRetryTime <= 0 {
		return types.NewError(ErrCodeInvalidConfig, "MaxTransactionRetryTime must be positive")
	}
	return nil
}
