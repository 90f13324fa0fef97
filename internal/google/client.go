package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/FranLegon/drive-folder-cleaner/internal/api"
	"github.com/FranLegon/drive-folder-cleaner/internal/auth"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

const (
	// DefaultPageSize matches the listing page size of the Drive web client
	DefaultPageSize int64 = 50

	listFields = "nextPageToken, files(id, name, mimeType, parents)"
)

// Client represents a Google Drive client bound to one account
type Client struct {
	service  *drive.Service
	email    string
	pageSize int64
}

var _ api.DriveService = (*Client)(nil)

// NewClient creates a Drive client authorized with the user's refresh token
func NewClient(ctx context.Context, user *model.User, config *oauth2.Config, pageSize int64) (*Client, error) {
	if user == nil {
		return nil, api.ErrNoAccount
	}
	// Fail early on a revoked or expired refresh token
	if err := auth.ValidateToken(ctx, config, user.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to get token for %s: %w", user.Email, err)
	}
	ts := auth.NewTokenSource(config, user.RefreshToken)
	return NewClientWithOptions(ctx, user.Email, pageSize, option.WithTokenSource(ts))
}

// NewClientWithOptions creates a Drive client from raw client options
func NewClientWithOptions(ctx context.Context, email string, pageSize int64, opts ...option.ClientOption) (*Client, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		service:  service,
		email:    email,
		pageSize: pageSize,
	}, nil
}

// ListAllFolders returns one page of every folder visible to the account
func (c *Client) ListAllFolders(ctx context.Context, pageToken string) (*api.Page, error) {
	return c.list(ctx, fmt.Sprintf("mimeType='%s'", model.FolderMimeType), pageToken)
}

// ListFolderChildren returns one page of the direct children of parentID
func (c *Client) ListFolderChildren(ctx context.Context, parentID, pageToken string) (*api.Page, error) {
	if parentID == "" {
		return nil, errors.New("parent folder ID is required")
	}
	return c.list(ctx, fmt.Sprintf("'%s' in parents", parentID), pageToken)
}

func (c *Client) list(ctx context.Context, query, pageToken string) (*api.Page, error) {
	call := c.service.Files.List().Q(query).Fields(listFields).PageSize(c.pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	fileList, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	page := &api.Page{
		Items:         make([]model.RemoteItem, 0, len(fileList.Files)),
		NextPageToken: fileList.NextPageToken,
	}
	for _, f := range fileList.Files {
		page.Items = append(page.Items, model.RemoteItem{
			ID:        f.Id,
			Name:      f.Name,
			MimeType:  f.MimeType,
			ParentIDs: f.Parents,
		})
	}
	logger.DebugTagged([]string{"Google", c.email}, "Listed %d items for %s", len(page.Items), query)
	return page, nil
}

// GetRootID returns the id of the account's "My Drive" folder
func (c *Client) GetRootID(ctx context.Context) (string, error) {
	f, err := c.service.Files.Get("root").Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

// GetItem fetches one item by id
func (c *Client) GetItem(ctx context.Context, id string) (*model.RemoteItem, error) {
	f, err := c.service.Files.Get(id).Fields("id, name, mimeType, parents").Context(ctx).Do()
	if err != nil {
		return nil, describe(err)
	}
	return &model.RemoteItem{
		ID:        f.Id,
		Name:      f.Name,
		MimeType:  f.MimeType,
		ParentIDs: f.Parents,
	}, nil
}

// DeleteByID permanently deletes an item. The item is not moved to the trash.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	if err := c.service.Files.Delete(id).Context(ctx).Do(); err != nil {
		return describe(err)
	}
	return nil
}

// AccountEmail asks Drive which account the credentials belong to
func (c *Client) AccountEmail(ctx context.Context) (string, error) {
	about, err := c.service.About.Get().Fields("user(emailAddress)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get account info: %w", err)
	}
	if about.User == nil {
		return "", errors.New("drive returned no user information")
	}
	return about.User.EmailAddress, nil
}

// apiError keeps the original error reachable while printing a short reason
type apiError struct {
	reason string
	err    error
}

func (e *apiError) Error() string { return e.reason }
func (e *apiError) Unwrap() error { return e.err }

// describe shortens a Drive error to "<code>: <message>"
func describe(err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return err
	}
	msg := gErr.Message
	if msg == "" && len(gErr.Errors) > 0 {
		msg = gErr.Errors[0].Message
	}
	if msg == "" {
		return err
	}
	return &apiError{reason: fmt.Sprintf("%d: %s", gErr.Code, msg), err: err}
}
