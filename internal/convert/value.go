package convert

import (
	"fmt"
	"strconv"

	"github.com/workflowkit/notion-bridge/internal/notion"
)

// stringify renders a raw field value the way it should appear in a text,
// select, or url-like property.
func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// ConvertValue converts a single raw value to a typed page property. It is a
// pure function: people properties (which need a resolver) and any
// unsupported type yield nil, as do empty values and values that fail to
// parse for their declared type.
func ConvertValue(value any, propType notion.PropertyType) *notion.PageProperty {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok && s == "" {
		return nil
	}

	switch propType {
	case notion.PropertyTitle:
		return &notion.PageProperty{
			Type:  notion.PropertyTitle,
			Title: []notion.RichTextSpan{{Text: notion.TextContent{Content: stringify(value)}}},
		}

	case notion.PropertyRichText:
		return &notion.PageProperty{
			Type:     notion.PropertyRichText,
			RichText: []notion.RichTextSpan{{Text: notion.TextContent{Content: stringify(value)}}},
		}

	case notion.PropertyNumber:
		var num float64
		switch v := value.(type) {
		case float64:
			num = v
		case int:
			num = float64(v)
		case int64:
			num = float64(v)
		default:
			parsed, err := strconv.ParseFloat(stringify(value), 64)
			if err != nil {
				return nil
			}
			num = parsed
		}
		return &notion.PageProperty{Type: notion.PropertyNumber, Number: &num}

	case notion.PropertySelect:
		return &notion.PageProperty{
			Type:   notion.PropertySelect,
			Select: &notion.SelectOption{Name: stringify(value)},
		}

	case notion.PropertyMultiSelect:
		var options []notion.SelectOption
		switch v := value.(type) {
		case []any:
			for _, elem := range v {
				options = append(options, notion.SelectOption{Name: stringify(elem)})
			}
		case []string:
			for _, elem := range v {
				options = append(options, notion.SelectOption{Name: elem})
			}
		default:
			options = []notion.SelectOption{{Name: stringify(value)}}
		}
		return &notion.PageProperty{Type: notion.PropertyMultiSelect, MultiSelect: options}

	case notion.PropertyDate:
		iso, ok := NormalizeDate(stringify(value))
		if !ok {
			return nil
		}
		return &notion.PageProperty{
			Type: notion.PropertyDate,
			Date: &notion.DateValue{Start: iso},
		}

	case notion.PropertyCheckbox:
		checked := value == true || value == "true"
		return &notion.PageProperty{Type: notion.PropertyCheckbox, Checkbox: &checked}

	case notion.PropertyURL:
		return &notion.PageProperty{Type: notion.PropertyURL, URL: stringify(value)}

	case notion.PropertyEmail:
		return &notion.PageProperty{Type: notion.PropertyEmail, Email: stringify(value)}

	case notion.PropertyPhoneNumber:
		return &notion.PageProperty{Type: notion.PropertyPhoneNumber, PhoneNumber: stringify(value)}

	default:
		return nil
	}
}
