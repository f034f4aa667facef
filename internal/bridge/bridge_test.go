package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/workflowkit/notion-bridge/internal/identity"
	"github.com/workflowkit/notion-bridge/internal/notion"
	"github.com/workflowkit/notion-bridge/internal/storage"
)

type fakeNotion struct {
	database *notion.Database
	page     *notion.Page

	getDatabaseErr error
	getPageErr     error
	createErr      error
	updateErr      error

	createdReq    *notion.CreatePageRequest
	updatedPageID string
	updatedProps  map[string]notion.PageProperty
}

func (f *fakeNotion) CreatePage(_ context.Context, req *notion.CreatePageRequest) (*notion.Page, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdReq = req
	return &notion.Page{ID: "page-1", URL: "https://notion.so/page-1"}, nil
}

func (f *fakeNotion) UpdatePage(_ context.Context, pageID string, properties map[string]notion.PageProperty) (*notion.Page, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedPageID = pageID
	f.updatedProps = properties
	return &notion.Page{ID: pageID, URL: "https://notion.so/" + pageID}, nil
}

func (f *fakeNotion) GetPage(_ context.Context, _ string) (*notion.Page, error) {
	if f.getPageErr != nil {
		return nil, f.getPageErr
	}
	return f.page, nil
}

func (f *fakeNotion) GetDatabase(_ context.Context, _ string) (*notion.Database, error) {
	if f.getDatabaseErr != nil {
		return nil, f.getDatabaseErr
	}
	return f.database, nil
}

// fakeResolver resolves any handle present in the users map and fails the
// rest.
type fakeResolver struct {
	users map[string]string
}

func (f *fakeResolver) ResolveSingle(_ context.Context, handle string) identity.Result {
	if id, ok := f.users[handle]; ok {
		return identity.Result{SlackUserID: handle, NotionUserID: id}
	}
	return identity.Result{SlackUserID: handle, Err: fmt.Errorf("no Notion user found with email: %s@example.com", handle)}
}

func (f *fakeResolver) ResolveMany(ctx context.Context, handles string) []identity.Result {
	var results []identity.Result
	for _, piece := range strings.Split(handles, ",") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			results = append(results, f.ResolveSingle(ctx, trimmed))
		}
	}
	return results
}

type memStore struct {
	invocations []storage.Invocation
	err         error
}

func (m *memStore) RecordInvocation(_ context.Context, inv *storage.Invocation) error {
	if m.err != nil {
		return m.err
	}
	m.invocations = append(m.invocations, *inv)
	return nil
}

func (m *memStore) ListInvocations(_ context.Context, limit int) ([]storage.Invocation, error) {
	return m.invocations, nil
}

func (m *memStore) Close() error { return nil }

func taskDatabase() *notion.Database {
	return &notion.Database{
		ID: "db-1",
		Properties: map[string]notion.DatabaseProperty{
			"Name":     {ID: "p1", Name: "Name", Type: notion.PropertyTitle},
			"Status":   {ID: "p2", Name: "Status", Type: notion.PropertySelect},
			"Assignee": {ID: "p3", Name: "Assignee", Type: notion.PropertyPeople},
			"Created":  {ID: "p4", Name: "Created", Type: notion.PropertyCreatedTime},
		},
	}
}

func TestCreateItem(t *testing.T) {
	api := &fakeNotion{database: taskDatabase()}
	resolver := &fakeResolver{users: map[string]string{"U11111111": "notion-alice"}}
	b := New(api, resolver)

	out := b.CreateItem(context.Background(), Inputs{
		"database_id":  "db-1",
		"field1_name":  "Name",
		"field1_value": "Ship the release",
		"field2_name":  "Status",
		"field2_value": "In Progress",
		"field3_name":  "Assignee",
		"field3_value": "U11111111",
	})

	if !out.Success {
		t.Fatalf("CreateItem failed: %s", out.Error)
	}
	if out.PageID != "page-1" || out.PageURL != "https://notion.so/page-1" {
		t.Errorf("unexpected page identity: %+v", out)
	}
	if out.UserMappingWarnings != "" {
		t.Errorf("unexpected warnings: %s", out.UserMappingWarnings)
	}

	if api.createdReq == nil {
		t.Fatal("no create request issued")
	}
	if api.createdReq.Parent.DatabaseID != "db-1" {
		t.Errorf("parent = %+v", api.createdReq.Parent)
	}
	if got := len(api.createdReq.Properties); got != 3 {
		t.Errorf("got %d properties, want 3: %+v", got, api.createdReq.Properties)
	}
	assignee := api.createdReq.Properties["Assignee"]
	if len(assignee.People) != 1 || assignee.People[0].ID != "notion-alice" {
		t.Errorf("assignee = %+v", assignee)
	}
}

func TestCreateItemUnresolvableAssigneeWarns(t *testing.T) {
	api := &fakeNotion{database: taskDatabase()}
	b := New(api, &fakeResolver{})

	out := b.CreateItem(context.Background(), Inputs{
		"database_id":  "db-1",
		"field1_name":  "Name",
		"field1_value": "Ship the release",
		"field2_name":  "Assignee",
		"field2_value": "U99999999",
	})

	if !out.Success {
		t.Fatalf("CreateItem failed: %s", out.Error)
	}
	if !strings.Contains(out.UserMappingWarnings, "U99999999") {
		t.Errorf("warnings = %q, want the failed handle mentioned", out.UserMappingWarnings)
	}
	if _, ok := api.createdReq.Properties["Assignee"]; ok {
		t.Error("fully unresolvable people field should be omitted")
	}
}

func TestCreateItemMissingDatabaseID(t *testing.T) {
	b := New(&fakeNotion{}, &fakeResolver{})

	out := b.CreateItem(context.Background(), Inputs{})
	if out.Success || out.Error != "database_id is required" {
		t.Errorf("got %+v", out)
	}
}

func TestCreateItemMissingTitle(t *testing.T) {
	api := &fakeNotion{database: taskDatabase()}
	b := New(api, &fakeResolver{})

	out := b.CreateItem(context.Background(), Inputs{
		"database_id":  "db-1",
		"field1_name":  "Status",
		"field1_value": "In Progress",
	})

	if out.Success {
		t.Fatal("expected failure for missing title field")
	}
	if out.Error != `Title field "Name" is required` {
		t.Errorf("error = %q", out.Error)
	}
	if api.createdReq != nil {
		t.Error("no create call should be made when the title policy fails")
	}
}

func TestCreateItemSchemaFetchFails(t *testing.T) {
	api := &fakeNotion{getDatabaseErr: errors.New("Notion API error (status 404): not found")}
	b := New(api, &fakeResolver{})

	out := b.CreateItem(context.Background(), Inputs{"database_id": "db-missing"})
	if out.Success {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(out.Error, "Failed to create Notion item: ") {
		t.Errorf("error = %q", out.Error)
	}
}

func TestUpdateItem(t *testing.T) {
	api := &fakeNotion{
		database: taskDatabase(),
		page:     &notion.Page{ID: "page-1", Parent: notion.Parent{Type: "database_id", DatabaseID: "db-1"}},
	}
	b := New(api, &fakeResolver{})

	out := b.UpdateItem(context.Background(), Inputs{
		"page_id":      "page-1",
		"field1_name":  "Status",
		"field1_value": "Done",
	})

	if !out.Success {
		t.Fatalf("UpdateItem failed: %s", out.Error)
	}
	if api.updatedPageID != "page-1" {
		t.Errorf("updated page id = %q", api.updatedPageID)
	}
	status := api.updatedProps["Status"]
	if status.Select == nil || status.Select.Name != "Done" {
		t.Errorf("status = %+v", status)
	}
}

func TestUpdateItemNothingToUpdate(t *testing.T) {
	api := &fakeNotion{
		database: taskDatabase(),
		page:     &notion.Page{ID: "page-1", Parent: notion.Parent{Type: "database_id", DatabaseID: "db-1"}},
	}
	b := New(api, &fakeResolver{})

	out := b.UpdateItem(context.Background(), Inputs{
		"page_id":      "page-1",
		"field1_name":  "Nonexistent",
		"field1_value": "whatever",
	})

	if out.Success {
		t.Fatal("expected failure when every field is unknown")
	}
	if out.Error != "No valid properties to update" {
		t.Errorf("error = %q", out.Error)
	}
	if api.updatedProps != nil {
		t.Error("no update call should be made")
	}
}

func TestUpdateItemPageNotInDatabase(t *testing.T) {
	api := &fakeNotion{
		page: &notion.Page{ID: "page-1", Parent: notion.Parent{Type: "workspace"}},
	}
	b := New(api, &fakeResolver{})

	out := b.UpdateItem(context.Background(), Inputs{
		"page_id":      "page-1",
		"field1_name":  "Status",
		"field1_value": "Done",
	})

	if out.Success {
		t.Fatal("expected failure for a page outside any database")
	}
	if out.Error != "The specified page is not part of a database" {
		t.Errorf("error = %q", out.Error)
	}
}

func TestUpdateItemMissingPageID(t *testing.T) {
	b := New(&fakeNotion{}, &fakeResolver{})

	out := b.UpdateItem(context.Background(), Inputs{})
	if out.Success || out.Error != "page_id is required" {
		t.Errorf("got %+v", out)
	}
}

func TestInvocationRecording(t *testing.T) {
	store := &memStore{}
	api := &fakeNotion{database: taskDatabase()}
	b := New(api, &fakeResolver{}, WithStore(store))

	b.CreateItem(context.Background(), Inputs{
		"database_id":  "db-1",
		"field1_name":  "Name",
		"field1_value": "Ship the release",
	})
	b.CreateItem(context.Background(), Inputs{})

	if len(store.invocations) != 2 {
		t.Fatalf("got %d invocations, want 2", len(store.invocations))
	}
	if !store.invocations[0].Success || store.invocations[0].Operation != "create_item" {
		t.Errorf("first invocation = %+v", store.invocations[0])
	}
	if store.invocations[1].Success || store.invocations[1].Error != "database_id is required" {
		t.Errorf("second invocation = %+v", store.invocations[1])
	}
}

func TestStoreFailureDoesNotAffectOutcome(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	api := &fakeNotion{database: taskDatabase()}
	b := New(api, &fakeResolver{}, WithStore(store))

	out := b.CreateItem(context.Background(), Inputs{
		"database_id":  "db-1",
		"field1_name":  "Name",
		"field1_value": "Ship the release",
	})

	if !out.Success {
		t.Errorf("storage failure must not fail the invocation: %+v", out)
	}
}
