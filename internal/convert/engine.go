package convert

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/workflowkit/notion-bridge/internal/identity"
	"github.com/workflowkit/notion-bridge/internal/notion"
)

// UserResolver resolves Slack user handles to Notion user ids. It is an
// interface so the engine can run against a deterministic stand-in in tests
// and against alternative identity back-ends.
type UserResolver interface {
	ResolveSingle(ctx context.Context, handle string) identity.Result
	ResolveMany(ctx context.Context, handles string) []identity.Result
}

// Result is the outcome of converting a set of collected fields. Warnings
// carry user-resolution failures; a warning never suppresses the rest of the
// properties.
type Result struct {
	Properties map[string]notion.PageProperty
	Warnings   []string
}

func findDefinition(name string, defs []notion.PropertyDefinition) *notion.PropertyDefinition {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i]
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Convert produces typed page properties for the collected fields. User
// fields are processed first, then regular fields; within each group fields
// are taken in name order so warning ordering is stable. Unknown field names
// and unsupported or unparseable values are logged and skipped without a
// warning; only identity-resolution failures warn.
func Convert(ctx context.Context, fields CollectedFields, writable []notion.PropertyDefinition, resolver UserResolver) Result {
	logger := slog.Default()
	properties := make(map[string]notion.PageProperty)
	warnings := []string{}

	for _, name := range sortedKeys(fields.UserFields) {
		handle := fields.UserFields[name]

		def := findDefinition(name, writable)
		if def == nil {
			logger.Warn("unknown property", slog.String("field", name))
			continue
		}
		if def.Type != notion.PropertyPeople {
			logger.Warn("user field is not a people property, skipping",
				slog.String("field", name),
				slog.String("type", string(def.Type)),
			)
			continue
		}

		res := resolver.ResolveSingle(ctx, handle)
		if res.NotionUserID == "" {
			warning := fmt.Sprintf("Failed to map user field %s (%s): %v", name, handle, resolutionError(res))
			logger.Warn(warning)
			warnings = append(warnings, warning)
			continue
		}

		properties[name] = notion.PageProperty{
			Type:   notion.PropertyPeople,
			People: []notion.PersonRef{{ID: res.NotionUserID}},
		}
	}

	for _, name := range sortedKeys(fields.Properties) {
		value := fields.Properties[name]
		if value == nil || value == "" {
			continue
		}

		def := findDefinition(name, writable)
		if def == nil {
			logger.Warn("unknown property", slog.String("field", name))
			continue
		}

		// People needs the resolver, everything else is a pure conversion.
		if def.Type == notion.PropertyPeople {
			results := resolver.ResolveMany(ctx, stringify(value))

			var resolved []notion.PersonRef
			for _, res := range results {
				if res.NotionUserID == "" {
					warning := fmt.Sprintf("Failed to map Slack user %s: %v", res.SlackUserID, resolutionError(res))
					logger.Warn(warning)
					warnings = append(warnings, warning)
					continue
				}
				resolved = append(resolved, notion.PersonRef{ID: res.NotionUserID})
			}

			if len(resolved) > 0 {
				properties[name] = notion.PageProperty{
					Type:   notion.PropertyPeople,
					People: resolved,
				}
			} else if len(results) > 0 {
				logger.Warn("no resolvable Notion users for people property", slog.String("field", name))
			}
			continue
		}

		converted := ConvertValue(value, def.Type)
		if converted == nil {
			logger.Warn("unsupported or invalid property value",
				slog.String("field", name),
				slog.String("type", string(def.Type)),
			)
			continue
		}
		properties[name] = *converted
	}

	return Result{Properties: properties, Warnings: warnings}
}

func resolutionError(res identity.Result) any {
	if res.Err == nil {
		return "unknown error"
	}
	return res.Err
}
