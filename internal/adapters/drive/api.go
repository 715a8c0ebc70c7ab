package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// driveAPI adapts the real Drive v3 service to folderAPI. Folder lookups and
// creations are retried on transient API failures; uploads are not, because
// the media stream cannot be replayed mid-flight.
type driveAPI struct {
	svc *gdrive.Service
}

var retryOpts = []retry.Option{
	retry.Attempts(3),
	retry.Delay(time.Second),
	retry.LastErrorOnly(true),
	retry.RetryIf(isTransient),
}

func (a *driveAPI) FindFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf(
		"'%s' in parents and mimeType='%s' and name='%s' and trashed=false",
		parentID, folderMimeType, escapeQuery(name),
	)
	return retry.DoWithData(func() (string, error) {
		list, err := a.svc.Files.List().
			Q(query).
			Fields("files(id)").
			PageSize(1).
			Context(ctx).
			Do()
		if err != nil {
			return "", err
		}
		if len(list.Files) == 0 {
			return "", nil
		}
		return list.Files[0].Id, nil
	}, retryOpts...)
}

func (a *driveAPI) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	return retry.DoWithData(func() (string, error) {
		folder, err := a.svc.Files.Create(&gdrive.File{
			Name:     name,
			MimeType: folderMimeType,
			Parents:  []string{parentID},
		}).Fields("id").Context(ctx).Do()
		if err != nil {
			return "", err
		}
		return folder.Id, nil
	}, retryOpts...)
}

func (a *driveAPI) Upload(ctx context.Context, folderID, name string, r io.Reader) error {
	_, err := a.svc.Files.Create(&gdrive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(r).Context(ctx).Do()
	return err
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return false
}

// escapeQuery escapes a folder name for use inside a single-quoted Drive
// query term.
func escapeQuery(name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	return strings.ReplaceAll(name, `'`, `\'`)
}
