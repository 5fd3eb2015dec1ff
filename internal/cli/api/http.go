package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"LinkKeeper/internal/cli/model"
	"LinkKeeper/internal/cli/service"
)

// Client — HTTP-реализация RemoteStore поверх справочного сервера зеркала.
// Транзиентные сбои возвращаются как есть (движок оборачивает их в
// ErrSyncUnavailable), отказ по конкретной записи — как *RejectedError.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ service.RemoteStore = (*Client)(nil)

// New создаёт клиента; serverURL — например "http://localhost:8081".
func New(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Wire-DTO повторяют контракт серверных хендлеров.
type collectionDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	Deleted     bool   `json:"deleted,omitempty"`
	DeletedAt   int64  `json:"deleted_at,omitempty"`
}

type bookmarkDTO struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Favicon      string `json:"favicon,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	CollectionID string `json:"collection_id"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	Deleted      bool   `json:"deleted,omitempty"`
	DeletedAt    int64  `json:"deleted_at,omitempty"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

type collectionChangesResponse struct {
	Changes []collectionDTO `json:"changes"`
	Cursor  int64           `json:"cursor"`
}

type bookmarkChangesResponse struct {
	Changes []bookmarkDTO `json:"changes"`
	Cursor  int64         `json:"cursor"`
}

// postJSON шлёт JSON POST с идентификацией пользователя в заголовке.
func (c *Client) postJSON(ctx context.Context, userID, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body, payload)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, userID, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-ID", userID)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body, nil)
	}
	return json.Unmarshal(body, out)
}

// statusError: 422 — окончательный отказ по записи, остальное — транзиент.
func statusError(status int, body []byte, payload any) error {
	if status == http.StatusUnprocessableEntity {
		id := ""
		switch p := payload.(type) {
		case collectionDTO:
			id = p.ID
		case bookmarkDTO:
			id = p.ID
		case deleteRequest:
			id = p.ID
		}
		return &service.RejectedError{EntityID: id, Reason: strings.TrimSpace(string(body))}
	}
	return fmt.Errorf("server returned status %d: %s", status, strings.TrimSpace(string(body)))
}

func (c *Client) UpsertCollection(ctx context.Context, userID string, col model.Collection) error {
	_, err := c.postJSON(ctx, userID, "/api/collections/upsert", collectionDTO{
		ID: col.ID, Name: col.Name, Description: col.Description,
		Icon: col.Icon, Color: col.Color, Order: col.Order,
		CreatedAt: col.CreatedAt, UpdatedAt: col.UpdatedAt,
		Deleted: col.Deleted, DeletedAt: col.DeletedAt,
	})
	return err
}

func (c *Client) DeleteCollection(ctx context.Context, userID, id string) error {
	_, err := c.postJSON(ctx, userID, "/api/collections/delete", deleteRequest{ID: id})
	return err
}

func (c *Client) CollectionsSince(ctx context.Context, userID string, cursor int64) ([]model.Collection, int64, error) {
	var resp collectionChangesResponse
	path := "/api/collections/changes?since=" + strconv.FormatInt(cursor, 10)
	if err := c.getJSON(ctx, userID, path, &resp); err != nil {
		return nil, 0, err
	}
	out := make([]model.Collection, 0, len(resp.Changes))
	for _, d := range resp.Changes {
		out = append(out, model.Collection{
			ID: d.ID, Name: d.Name, Description: d.Description,
			Icon: d.Icon, Color: d.Color, Order: d.Order,
			CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
			Deleted: d.Deleted, DeletedAt: d.DeletedAt,
		})
	}
	return out, resp.Cursor, nil
}

func (c *Client) UpsertBookmark(ctx context.Context, userID string, b model.Bookmark) error {
	_, err := c.postJSON(ctx, userID, "/api/bookmarks/upsert", bookmarkDTO{
		ID: b.ID, URL: b.URL, Title: b.Title, Description: b.Description,
		Favicon: b.Favicon, Thumbnail: b.Thumbnail, CollectionID: b.CollectionID,
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
		Deleted: b.Deleted, DeletedAt: b.DeletedAt,
	})
	return err
}

func (c *Client) DeleteBookmark(ctx context.Context, userID, id string) error {
	_, err := c.postJSON(ctx, userID, "/api/bookmarks/delete", deleteRequest{ID: id})
	return err
}

func (c *Client) BookmarksSince(ctx context.Context, userID string, cursor int64) ([]model.Bookmark, int64, error) {
	var resp bookmarkChangesResponse
	path := "/api/bookmarks/changes?since=" + strconv.FormatInt(cursor, 10)
	if err := c.getJSON(ctx, userID, path, &resp); err != nil {
		return nil, 0, err
	}
	out := make([]model.Bookmark, 0, len(resp.Changes))
	for _, d := range resp.Changes {
		out = append(out, model.Bookmark{
			ID: d.ID, URL: d.URL, Title: d.Title, Description: d.Description,
			Favicon: d.Favicon, Thumbnail: d.Thumbnail, CollectionID: d.CollectionID,
			CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
			Deleted: d.Deleted, DeletedAt: d.DeletedAt,
		})
	}
	return out, resp.Cursor, nil
}
