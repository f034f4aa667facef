// Package convert translates flat name/value field pairs into typed Notion
// page properties, consulting a database schema and a user resolver.
package convert

import "fmt"

const (
	// MaxRegularFields is the number of positional field slots the hosting
	// contract exposes (field1_name/field1_value .. field10_*).
	MaxRegularFields = 10

	// MaxUserFields is the number of positional user field slots
	// (user_field1_name/user_field1_value .. user_field3_*).
	MaxUserFields = 3
)

// CollectedFields holds the field pairs extracted from an input bag.
type CollectedFields struct {
	// Properties maps field name to raw value for the regular slots.
	Properties map[string]any

	// UserFields maps field name to a Slack user handle.
	UserFields map[string]string
}

// CollectFields extracts the bounded positional field pairs from an input
// bag. A pair is kept only when both halves are non-empty strings.
func CollectFields(inputs map[string]any) CollectedFields {
	properties := make(map[string]any)
	userFields := make(map[string]string)

	for i := 1; i <= MaxUserFields; i++ {
		name, _ := inputs[fmt.Sprintf("user_field%d_name", i)].(string)
		value, _ := inputs[fmt.Sprintf("user_field%d_value", i)].(string)
		if name != "" && value != "" {
			userFields[name] = value
		}
	}

	for i := 1; i <= MaxRegularFields; i++ {
		name, _ := inputs[fmt.Sprintf("field%d_name", i)].(string)
		value, _ := inputs[fmt.Sprintf("field%d_value", i)].(string)
		if name != "" && value != "" {
			properties[name] = value
		}
	}

	return CollectedFields{Properties: properties, UserFields: userFields}
}
