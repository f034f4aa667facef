// Package storage defines the invocation audit model and the store
// interface its backends implement.
package storage

import (
	"context"
	"time"
)

// Invocation is one recorded bridge operation.
type Invocation struct {
	ID         string    `db:"id" json:"id"`
	Operation  string    `db:"operation" json:"operation"`
	DatabaseID string    `db:"database_id" json:"database_id,omitempty"`
	PageID     string    `db:"page_id" json:"page_id,omitempty"`
	Success    bool      `db:"success" json:"success"`
	Error      string    `db:"error_message" json:"error,omitempty"`
	Warnings   string    `db:"warnings" json:"warnings,omitempty"`
	DurationNS int64     `db:"duration_ns" json:"duration_ns"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// InvocationStore records and lists bridge invocations.
type InvocationStore interface {
	RecordInvocation(ctx context.Context, inv *Invocation) error
	ListInvocations(ctx context.Context, limit int) ([]Invocation, error)
	Close() error
}
