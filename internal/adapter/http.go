package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/avdeyev/go-note-sync/internal/config"
	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/utils"
	"github.com/avdeyev/go-note-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpFileStore struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// fileUploadBody is the JSON request body for create and overwrite calls.
// Content is base64-encoded by encoding/json.
type fileUploadBody struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// NewHTTPFileStore constructs a REST implementation of [RemoteFileStore]
// for a self-hosted blob-file API. It normalises and validates the base URL
// from cfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPFileStore(cfg config.RemoteStore, log *logger.Logger) (RemoteFileStore, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid remote store http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpFileStore{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteFileStore]. It stores token
// (whitespace-trimmed) for use in the Authorization header of all
// subsequent requests.
func (h *httpFileStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteFileStore]. It returns the bearer token currently
// held by the store, or an empty string if none has been set.
func (h *httpFileStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// FindFile implements [RemoteFileStore]. It GETs /api/files?name= and
// decodes the reference of the first match. A 404 response means the
// category has never been uploaded and yields (nil, nil).
func (h *httpFileStore) FindFile(ctx context.Context, name string) (*models.FileRef, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("name", name).
		Get("/api/files")
	if err != nil {
		return nil, fmt.Errorf("find file request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var ref models.FileRef
	if err = json.Unmarshal(resp.Body(), &ref); err != nil {
		return nil, fmt.Errorf("decode find file response: %w", err)
	}

	return &ref, nil
}

// ReadFile implements [RemoteFileStore]. It GETs the raw content from
// /api/files/{id}/content.
func (h *httpFileStore) ReadFile(ctx context.Context, ref models.FileRef) ([]byte, error) {
	resp, err := h.authedRequest(ctx).
		Get("/api/files/" + url.PathEscape(ref.ID) + "/content")
	if err != nil {
		return nil, fmt.Errorf("read file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// WriteFile implements [RemoteFileStore]. It POSTs a new file to /api/files
// when existing is nil, otherwise PUTs the content to /api/files/{id}.
// Returns the reference decoded from the response.
func (h *httpFileStore) WriteFile(ctx context.Context, name string, content []byte, existing *models.FileRef) (models.FileRef, error) {
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fileUploadBody{Name: name, Content: content})

	var (
		resp *resty.Response
		err  error
	)
	if existing == nil {
		resp, err = req.Post("/api/files")
	} else {
		resp, err = req.Put("/api/files/" + url.PathEscape(existing.ID))
	}
	if err != nil {
		return models.FileRef{}, fmt.Errorf("write file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FileRef{}, err
	}

	var ref models.FileRef
	if err = json.Unmarshal(resp.Body(), &ref); err != nil {
		return models.FileRef{}, fmt.Errorf("decode write file response: %w", err)
	}

	return ref, nil
}

// DeleteFile implements [RemoteFileStore]. It sends a DELETE request to
// /api/files/{id}.
func (h *httpFileStore) DeleteFile(ctx context.Context, ref models.FileRef) error {
	resp, err := h.authedRequest(ctx).
		Delete("/api/files/" + url.PathEscape(ref.ID))
	if err != nil {
		return fmt.Errorf("delete file request: %w", err)
	}

	return mapHTTPError(resp)
}

// Ping implements [RemoteFileStore]. It GETs /api/ping, which validates the
// bearer token without touching any file.
func (h *httpFileStore) Ping(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Get("/api/ping")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpFileStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
