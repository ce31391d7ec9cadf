package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// appDataSpace is the hidden per-application Drive space. Files stored
// there are invisible to the user's regular Drive and to other apps.
const appDataSpace = "appDataFolder"

const refFields = "id, name, modifiedTime, size"

type driveFileStore struct {
	mu    sync.RWMutex
	token string
	svc   *drive.Service

	// extra client options override the token source, used by tests to
	// inject a stub HTTP client
	opts []option.ClientOption

	logger *logger.Logger
}

// NewDriveFileStore constructs a Google Drive implementation of
// [RemoteFileStore] operating exclusively in the appDataFolder space.
//
// The Drive service is built lazily on first use and rebuilt after every
// SetToken, wrapping the current bearer token in an oauth2 static token
// source. Optional client options replace the token source entirely.
func NewDriveFileStore(log *logger.Logger, opts ...option.ClientOption) RemoteFileStore {
	return &driveFileStore{opts: opts, logger: log}
}

// SetToken implements [RemoteFileStore]. Storing a new token invalidates
// the cached Drive service so the next call authenticates with it.
func (d *driveFileStore) SetToken(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token = strings.TrimSpace(token)
	d.svc = nil
}

// Token implements [RemoteFileStore].
func (d *driveFileStore) Token() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.token
}

// service returns the cached Drive service, building it from the stored
// token when needed. An empty token maps to ErrUnauthorized without a
// network round trip.
func (d *driveFileStore) service(ctx context.Context) (*drive.Service, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.svc != nil {
		return d.svc, nil
	}
	if d.token == "" {
		return nil, fmt.Errorf("%w: no token set", ErrUnauthorized)
	}

	opts := d.opts
	if len(opts) == 0 {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: d.token})
		opts = []option.ClientOption{option.WithTokenSource(source)}
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("build drive service: %w", err)
	}

	d.svc = svc
	return svc, nil
}

// FindFile implements [RemoteFileStore]. It lists the appDataFolder space
// filtered by exact name and returns the first live match, or (nil, nil)
// when the file has never been created.
func (d *driveFileStore) FindFile(ctx context.Context, name string) (*models.FileRef, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("name = '%s' and trashed = false", escapeDriveQueryTerm(name))
	list, err := svc.Files.List().
		Spaces(appDataSpace).
		Q(query).
		Fields("files(" + refFields + ")").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive find file: %w", mapDriveError(err))
	}
	if len(list.Files) == 0 {
		return nil, nil
	}

	ref := refFromDriveFile(list.Files[0])
	return &ref, nil
}

// ReadFile implements [RemoteFileStore]. It downloads the file content
// through the media endpoint.
func (d *driveFileStore) ReadFile(ctx context.Context, ref models.FileRef) ([]byte, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Files.Get(ref.ID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive read file %s: %w", ref.Name, mapDriveError(err))
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive read file %s body: %w", ref.Name, err)
	}

	return content, nil
}

// WriteFile implements [RemoteFileStore]. A nil existing reference creates
// the file inside appDataFolder; otherwise the referenced file is updated
// in place, which preserves its id across devices.
func (d *driveFileStore) WriteFile(ctx context.Context, name string, content []byte, existing *models.FileRef) (models.FileRef, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return models.FileRef{}, err
	}

	var written *drive.File
	if existing == nil {
		written, err = svc.Files.Create(&drive.File{
			Name:    name,
			Parents: []string{appDataSpace},
		}).
			Media(bytes.NewReader(content)).
			Fields(refFields).
			Context(ctx).
			Do()
	} else {
		written, err = svc.Files.Update(existing.ID, &drive.File{}).
			Media(bytes.NewReader(content)).
			Fields(refFields).
			Context(ctx).
			Do()
	}
	if err != nil {
		return models.FileRef{}, fmt.Errorf("drive write file %s: %w", name, mapDriveError(err))
	}

	return refFromDriveFile(written), nil
}

// DeleteFile implements [RemoteFileStore].
func (d *driveFileStore) DeleteFile(ctx context.Context, ref models.FileRef) error {
	svc, err := d.service(ctx)
	if err != nil {
		return err
	}

	if err := svc.Files.Delete(ref.ID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive delete file %s: %w", ref.Name, mapDriveError(err))
	}

	return nil
}

// Ping implements [RemoteFileStore]. It fetches the about resource, the
// cheapest authenticated Drive call available to an appDataFolder scope.
func (d *driveFileStore) Ping(ctx context.Context) error {
	svc, err := d.service(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.About.Get().Fields("user").Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive ping: %w", mapDriveError(err))
	}

	return nil
}

func refFromDriveFile(f *drive.File) models.FileRef {
	ref := models.FileRef{
		ID:   f.Id,
		Name: f.Name,
		Size: f.Size,
	}
	if f.ModifiedTime != "" {
		if ts, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			ref.ModifiedAt = ts
		}
	}
	return ref
}

// escapeDriveQueryTerm escapes the single quotes and backslashes that
// would otherwise break out of the Drive query string literal.
func escapeDriveQueryTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	return strings.ReplaceAll(term, `'`, `\'`)
}
