package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// CategoryResult is one leg of a classification triple.
type CategoryResult struct {
	Text           string   `json:"text"`
	Confidence     float64  `json:"confidence"`
	ModelConsensus []string `json:"model_consensus,omitempty"`
}

// ClassificationRecord is the persisted outcome of one pipeline run.
type ClassificationRecord struct {
	ID        string            `json:"id"`
	Input     string            `json:"input"`
	Symptom   CategoryResult    `json:"symptom"`
	Cause     CategoryResult    `json:"cause"`
	Action    CategoryResult    `json:"action"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ClassificationDAO persists classification records. Each category is a
// JSON blob column keyed by the classification id, mirroring the
// classification:<id>:{symptom,cause,action,metadata} record layout.
type ClassificationDAO struct {
	db *Database
}

// NewClassificationDAO creates a DAO over an open database.
func NewClassificationDAO(db *Database) *ClassificationDAO {
	return &ClassificationDAO{db: db}
}

// Store inserts or replaces a classification record.
func (dao *ClassificationDAO) Store(ctx context.Context, record ClassificationRecord) error {
	if record.ID == "" {
		return types.NewError(types.DB_QUERY_FAILED, "classification id cannot be empty")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	symptom, err := json.Marshal(record.Symptom)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to serialize symptom", err)
	}
	cause, err := json.Marshal(record.Cause)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to serialize cause", err)
	}
	action, err := json.Marshal(record.Action)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to serialize action", err)
	}
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to serialize metadata", err)
	}

	_, err = dao.db.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO classifications
			(id, input, symptom, cause, action, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Input, string(symptom), string(cause), string(action),
		string(metadata), record.CreatedAt)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED,
			fmt.Sprintf("failed to store classification %s", record.ID), err)
	}
	return nil
}

// Get retrieves a classification record by id.
func (dao *ClassificationDAO) Get(ctx context.Context, id string) (*ClassificationRecord, error) {
	row := dao.db.db.QueryRowContext(ctx, `
		SELECT id, input, symptom, cause, action, metadata, created_at
		FROM classifications WHERE id = ?
	`, id)

	record, err := scanClassification(row)
	if err == sql.ErrNoRows {
		return nil, types.NewError(types.CLASSIFICATION_NOT_FOUND,
			fmt.Sprintf("classification not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED,
			fmt.Sprintf("failed to load classification %s", id), err)
	}
	return record, nil
}

// List returns the most recent classification records, newest first.
func (dao *ClassificationDAO) List(ctx context.Context, limit int) ([]ClassificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := dao.db.db.QueryContext(ctx, `
		SELECT id, input, symptom, cause, action, metadata, created_at
		FROM classifications ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED,
			"failed to list classifications", err)
	}
	defer rows.Close()

	var records []ClassificationRecord
	for rows.Next() {
		record, err := scanClassification(rows)
		if err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED,
				"failed to scan classification row", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED,
			"failed to iterate classification rows", err)
	}
	return records, nil
}

// Count returns the total number of stored classifications.
func (dao *ClassificationDAO) Count(ctx context.Context) (int, error) {
	var count int
	err := dao.db.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM classifications").Scan(&count)
	if err != nil {
		return 0, types.WrapError(types.DB_QUERY_FAILED,
			"failed to count classifications", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassification(row rowScanner) (*ClassificationRecord, error) {
	var record ClassificationRecord
	var symptom, cause, action, metadata string

	if err := row.Scan(&record.ID, &record.Input, &symptom, &cause, &action,
		&metadata, &record.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(symptom), &record.Symptom); err != nil {
		return nil, fmt.Errorf("corrupt symptom payload: %w", err)
	}
	if err := json.Unmarshal([]byte(cause), &record.Cause); err != nil {
		return nil, fmt.Errorf("corrupt cause payload: %w", err)
	}
	if err := json.Unmarshal([]byte(action), &record.Action); err != nil {
		return nil, fmt.Errorf("corrupt action payload: %w", err)
	}
	if metadata != "" && metadata != "null" {
		if err := json.Unmarshal([]byte(metadata), &record.Metadata); err != nil {
			return nil, fmt.Errorf("corrupt metadata payload: %w", err)
		}
	}
	return &record, nil
}
