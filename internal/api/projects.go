package api

import (
	"context"
	"fmt"
	"net/url"
)

// FetchProjects returns all projects of a user ordered by projectId.
func (c *Client) FetchProjects(ctx context.Context, userID string) ([]Project, error) {
	query := url.Values{}
	query.Set("userId", userID)

	projects := make([]Project, 0)
	if err := c.Get(ctx, "/v1/projects", query, &projects); err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a new project and returns its docId.
func (c *Client) CreateProject(ctx context.Context, p Project) (string, error) {
	var created CreatedResponse
	if err := c.Post(ctx, "/v1/projects", p, &created); err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	if created.DocID == "" {
		return "", fmt.Errorf("failed to create project: server returned no docId")
	}
	return created.DocID, nil
}

// DeleteProject deletes the project stored under docID.
func (c *Client) DeleteProject(ctx context.Context, docID string) error {
	if err := c.Delete(ctx, "/v1/projects/"+url.PathEscape(docID)); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", docID, err)
	}
	return nil
}
