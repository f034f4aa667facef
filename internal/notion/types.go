package notion

// PropertyType is the declared type of a database property.
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertyNumber      PropertyType = "number"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyDate        PropertyType = "date"
	PropertyPeople      PropertyType = "people"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyURL         PropertyType = "url"
	PropertyEmail       PropertyType = "email"
	PropertyPhoneNumber PropertyType = "phone_number"
	PropertyFiles       PropertyType = "files"

	// Computed by Notion, never writable.
	PropertyCreatedTime    PropertyType = "created_time"
	PropertyCreatedBy      PropertyType = "created_by"
	PropertyLastEditedTime PropertyType = "last_edited_time"
	PropertyLastEditedBy   PropertyType = "last_edited_by"
)

// TextContent is the inner content of a rich text span.
type TextContent struct {
	Content string `json:"content"`
}

// RichTextSpan is a single unformatted text run.
type RichTextSpan struct {
	Text TextContent `json:"text"`
}

// SelectOption names one option of a select or multi_select property.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue holds an ISO-8601 calendar date range.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// PersonRef references a Notion user by id.
type PersonRef struct {
	ID string `json:"id"`
}

// PageProperty is a typed page property value. Exactly one of the value
// fields is populated, matching Type.
type PageProperty struct {
	Type        PropertyType   `json:"type"`
	Title       []RichTextSpan `json:"title,omitempty"`
	RichText    []RichTextSpan `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	People      []PersonRef    `json:"people,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	URL         string         `json:"url,omitempty"`
	Email       string         `json:"email,omitempty"`
	PhoneNumber string         `json:"phone_number,omitempty"`
}

// PropertyDefinition is one writable field of a database schema.
type PropertyDefinition struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
}

// DatabaseProperty is the raw schema entry as returned by the API. Name may
// be absent, in which case the map key identifies the property.
type DatabaseProperty struct {
	ID   string       `json:"id"`
	Name string       `json:"name,omitempty"`
	Type PropertyType `json:"type"`
}

// Database is a database schema.
type Database struct {
	ID         string                      `json:"id"`
	Properties map[string]DatabaseProperty `json:"properties"`
}

// Parent identifies the container a page belongs to.
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

// Page is the subset of a page record the bridge cares about.
type Page struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Parent Parent `json:"parent"`
}

// CreatePageRequest is the body of a create-page call.
type CreatePageRequest struct {
	Parent     Parent                  `json:"parent"`
	Properties map[string]PageProperty `json:"properties"`
}

// UpdatePageRequest is the body of an update-page call.
type UpdatePageRequest struct {
	Properties map[string]PageProperty `json:"properties"`
}

// Person carries the person-specific part of a user record.
type Person struct {
	Email string `json:"email,omitempty"`
}

// User is a workspace principal. Type is "person" or "bot".
type User struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Name   string  `json:"name,omitempty"`
	Person *Person `json:"person,omitempty"`
}

// UserListPage is one page of the paginated users listing.
type UserListPage struct {
	Results    []User `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}
