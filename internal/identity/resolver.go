// Package identity maps Slack user handles to Notion user ids by
// cross-referencing email addresses between the two directories.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/workflowkit/notion-bridge/internal/notion"
	"github.com/workflowkit/notion-bridge/internal/slack"
)

var (
	// mentionPattern matches <@U1234567> or <@U1234567|username>.
	mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)(?:\|[^>]+)?>$`)

	// slackIDPattern is the shape of a raw Slack user id.
	slackIDPattern = regexp.MustCompile(`^[A-Z0-9]{9,11}$`)
)

// Result is the outcome of resolving one Slack handle. On success
// NotionUserID is set and Err is nil; on failure Err describes why.
type Result struct {
	NotionUserID string
	SlackUserID  string
	Err          error
}

// UserInfoClient looks up Slack user records.
type UserInfoClient interface {
	UserInfo(ctx context.Context, userID string) (*slack.User, error)
}

// Resolver resolves Slack user handles to Notion user ids.
type Resolver struct {
	slack     UserInfoClient
	directory *Directory
	logger    *slog.Logger
}

// NewResolver creates a resolver over the given Slack client and directory
// cache.
func NewResolver(slackClient UserInfoClient, directory *Directory) *Resolver {
	return &Resolver{
		slack:     slackClient,
		directory: directory,
		logger:    slog.Default(),
	}
}

// parseHandle extracts the raw user id from a handle that may be wrapped in
// mention syntax.
func parseHandle(input string) string {
	trimmed := strings.TrimSpace(input)
	if m := mentionPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}

// ResolveSingle maps one Slack handle to a Notion user id.
func (r *Resolver) ResolveSingle(ctx context.Context, handle string) Result {
	userID := parseHandle(handle)

	if !slackIDPattern.MatchString(userID) {
		return Result{
			SlackUserID: userID,
			Err:         fmt.Errorf("invalid Slack user ID %q: expected U1234567 or <@U1234567>", handle),
		}
	}

	user, err := r.slack.UserInfo(ctx, userID)
	if err != nil {
		return Result{SlackUserID: userID, Err: err}
	}

	email := user.Profile.Email
	if email == "" {
		return Result{
			SlackUserID: userID,
			Err:         errors.New("Slack user has no email address (check users:read.email scope)"),
		}
	}

	users, err := r.directory.Users(ctx)
	if err != nil {
		return Result{SlackUserID: userID, Err: fmt.Errorf("failed to list Notion users: %w", err)}
	}

	var matches []notion.User
	for _, u := range users {
		if u.Type != "person" || u.Person == nil {
			continue
		}
		if strings.EqualFold(u.Person.Email, email) {
			matches = append(matches, u)
		}
	}

	if len(matches) == 0 {
		return Result{SlackUserID: userID, Err: fmt.Errorf("no Notion user found with email: %s", email)}
	}
	if len(matches) > 1 {
		// Ambiguous by contract: take the first in listing order.
		r.logger.Warn("multiple Notion users share email, using first match",
			slog.String("email", email),
			slog.String("notion_user_id", matches[0].ID),
		)
	}

	r.logger.Debug("resolved Slack user",
		slog.String("slack_user_id", userID),
		slog.String("notion_user_id", matches[0].ID),
	)

	return Result{SlackUserID: userID, NotionUserID: matches[0].ID}
}

// ResolveMany resolves a comma-separated list of handles concurrently.
// Results are returned in input order; empty pieces are dropped.
func (r *Resolver) ResolveMany(ctx context.Context, handles string) []Result {
	var ids []string
	for _, piece := range strings.Split(handles, ",") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	results := make([]Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = r.ResolveSingle(ctx, id)
		}(i, id)
	}
	wg.Wait()

	return results
}
