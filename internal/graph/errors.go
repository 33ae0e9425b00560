package graph

import "github.com/rkorrapolu/sye-agent/internal/types"

// Graph database error codes
const (
	ErrCodeConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"
	ErrCodeInvalidConfig    types.ErrorCode = "GRAPH_INVALID_CONFIG"

	ErrCodeQueryFailed   types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeWriteFailed   types.ErrorCode = "GRAPH_WRITE_FAILED"
	ErrCodeResultParsing types.ErrorCode = "GRAPH_RESULT_PARSING"

	ErrCodeNodeCreateFailed         types.ErrorCode = "GRAPH_NODE_CREATE_FAILED"
	ErrCodeRelationshipCreateFailed types.ErrorCode = "GRAPH_RELATIONSHIP_CREATE_FAILED"
)
