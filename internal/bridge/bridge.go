// Package bridge implements the hosted function operations: create and
// update a Notion database item from a flat bag of field inputs.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workflowkit/notion-bridge/internal/convert"
	"github.com/workflowkit/notion-bridge/internal/notion"
	"github.com/workflowkit/notion-bridge/internal/storage"
)

// Inputs is the flat input bag of a function invocation.
type Inputs map[string]any

// Outputs is the result bag returned to the caller. Exactly one of a
// successful result or Error is populated; warnings may accompany success.
type Outputs struct {
	Success             bool   `json:"success"`
	PageID              string `json:"page_id,omitempty"`
	PageURL             string `json:"page_url,omitempty"`
	Error               string `json:"error,omitempty"`
	UserMappingWarnings string `json:"user_mapping_warnings,omitempty"`
}

// NotionAPI is the remote document API surface the bridge consumes.
type NotionAPI interface {
	CreatePage(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties map[string]notion.PageProperty) (*notion.Page, error)
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
	GetDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithStore enables best-effort invocation recording.
func WithStore(store storage.InvocationStore) Option {
	return func(b *Bridge) {
		b.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// Bridge executes function invocations against the Notion API.
type Bridge struct {
	notion   NotionAPI
	resolver convert.UserResolver
	store    storage.InvocationStore
	logger   *slog.Logger
}

// New creates a bridge over the given Notion client and user resolver.
func New(notionAPI NotionAPI, resolver convert.UserResolver, opts ...Option) *Bridge {
	b := &Bridge{
		notion:   notionAPI,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func stringInput(inputs Inputs, key string) string {
	s, _ := inputs[key].(string)
	return s
}

func failure(msg string) Outputs {
	return Outputs{Success: false, Error: msg}
}

// CreateItem creates an item in the database named by inputs["database_id"].
func (b *Bridge) CreateItem(ctx context.Context, inputs Inputs) Outputs {
	start := time.Now()
	out := b.createItem(ctx, inputs)
	b.record(ctx, "create_item", stringInput(inputs, "database_id"), out, time.Since(start))
	return out
}

func (b *Bridge) createItem(ctx context.Context, inputs Inputs) Outputs {
	databaseID := stringInput(inputs, "database_id")
	if databaseID == "" {
		return failure("database_id is required")
	}

	db, err := b.notion.GetDatabase(ctx, databaseID)
	if err != nil {
		return failure("Failed to create Notion item: " + err.Error())
	}
	writable := notion.WritableProperties(db)

	collected := convert.CollectFields(inputs)
	result := convert.Convert(ctx, collected, writable, b.resolver)

	// A title-typed property, when the schema has one, must be supplied.
	for _, def := range writable {
		if def.Type != notion.PropertyTitle {
			continue
		}
		if _, ok := result.Properties[def.Name]; !ok {
			return failure(fmt.Sprintf("Title field %q is required", def.Name))
		}
		break
	}

	page, err := b.notion.CreatePage(ctx, &notion.CreatePageRequest{
		Parent:     notion.Parent{DatabaseID: databaseID},
		Properties: result.Properties,
	})
	if err != nil {
		return failure("Failed to create Notion item: " + err.Error())
	}

	b.logger.Info("created Notion item",
		slog.String("database_id", databaseID),
		slog.String("page_id", page.ID),
		slog.Int("warnings", len(result.Warnings)),
	)

	return Outputs{
		Success:             true,
		PageID:              page.ID,
		PageURL:             page.URL,
		UserMappingWarnings: strings.Join(result.Warnings, "; "),
	}
}

// UpdateItem updates the item named by inputs["page_id"], resolving the
// governing schema through the page's parent database.
func (b *Bridge) UpdateItem(ctx context.Context, inputs Inputs) Outputs {
	start := time.Now()
	out := b.updateItem(ctx, inputs)
	b.record(ctx, "update_item", "", out, time.Since(start))
	return out
}

func (b *Bridge) updateItem(ctx context.Context, inputs Inputs) Outputs {
	pageID := stringInput(inputs, "page_id")
	if pageID == "" {
		return failure("page_id is required")
	}

	page, err := b.notion.GetPage(ctx, pageID)
	if err != nil {
		return failure("Failed to update Notion item: " + err.Error())
	}
	if page.Parent.Type != "database_id" || page.Parent.DatabaseID == "" {
		return failure("The specified page is not part of a database")
	}

	db, err := b.notion.GetDatabase(ctx, page.Parent.DatabaseID)
	if err != nil {
		return failure("Failed to update Notion item: " + err.Error())
	}
	writable := notion.WritableProperties(db)

	collected := convert.CollectFields(inputs)
	result := convert.Convert(ctx, collected, writable, b.resolver)

	if len(result.Properties) == 0 {
		return failure("No valid properties to update")
	}

	updated, err := b.notion.UpdatePage(ctx, pageID, result.Properties)
	if err != nil {
		return failure("Failed to update Notion item: " + err.Error())
	}

	b.logger.Info("updated Notion item",
		slog.String("page_id", updated.ID),
		slog.Int("warnings", len(result.Warnings)),
	)

	return Outputs{
		Success:             true,
		PageID:              updated.ID,
		PageURL:             updated.URL,
		UserMappingWarnings: strings.Join(result.Warnings, "; "),
	}
}

// record persists an invocation row. Recording is decoupled from the request
// outcome: a storage failure is logged, never surfaced.
func (b *Bridge) record(ctx context.Context, operation, databaseID string, out Outputs, elapsed time.Duration) {
	if b.store == nil {
		return
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	inv := &storage.Invocation{
		ID:         uuid.New().String(),
		Operation:  operation,
		DatabaseID: databaseID,
		PageID:     out.PageID,
		Success:    out.Success,
		Error:      out.Error,
		Warnings:   out.UserMappingWarnings,
		DurationNS: elapsed.Nanoseconds(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := b.store.RecordInvocation(persistCtx, inv); err != nil {
		b.logger.Error("failed to record invocation",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
}
