package notion

import (
	"log/slog"
	"sort"
)

// writableType reports whether a property of the given type can be written
// through the pages API. The four computed types are maintained by Notion.
func writableType(t PropertyType) bool {
	switch t {
	case PropertyCreatedTime, PropertyCreatedBy, PropertyLastEditedTime, PropertyLastEditedBy:
		return false
	}
	return true
}

// WritableProperties filters a database schema down to the properties a
// client may write. When a schema entry has no display name its map key is
// used instead. Entries are returned in key order so callers see a stable
// set. Two entries resolving to the same name would shadow each other in the
// pages API; the first is kept and the collision logged.
func WritableProperties(db *Database) []PropertyDefinition {
	keys := make([]string, 0, len(db.Properties))
	for key := range db.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[string]bool, len(keys))
	writable := make([]PropertyDefinition, 0, len(keys))

	for _, key := range keys {
		prop := db.Properties[key]
		if !writableType(prop.Type) {
			continue
		}

		name := prop.Name
		if name == "" {
			name = key
		}

		if seen[name] {
			slog.Warn("duplicate property name in schema, keeping first",
				slog.String("database_id", db.ID),
				slog.String("name", name),
			)
			continue
		}
		seen[name] = true

		writable = append(writable, PropertyDefinition{
			ID:   prop.ID,
			Name: name,
			Type: prop.Type,
		})
	}

	return writable
}
