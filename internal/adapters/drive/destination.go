package drive

import (
	"context"
	"encoding/base64"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"farmbot/internal/core/ports"
)

const (
	farmFolder    = "The Farm"
	inboundFolder = "Inbound"

	folderMimeType = "application/vnd.google-apps.folder"
)

// folderAPI is the raw Drive surface the resolver needs. Kept narrow so the
// find-or-create logic can be exercised against a fake.
type folderAPI interface {
	// FindFolder returns the id of a non-trashed child folder with the
	// exact name, or "" if none exists.
	FindFolder(ctx context.Context, parentID, name string) (string, error)

	// CreateFolder creates a child folder and returns its id.
	CreateFolder(ctx context.Context, parentID, name string) (string, error)

	// Upload writes r as a new file named name inside folderID.
	Upload(ctx context.Context, folderID, name string, r io.Reader) error
}

// Destination implements ports.Destination on a Google Drive folder
// hierarchy rooted at rootID.
type Destination struct {
	api    folderAPI
	rootID string
	log    *logrus.Logger
}

// NewDestination authenticates with a base64-encoded service-account JSON
// key and returns a Drive-backed destination.
func NewDestination(ctx context.Context, keyB64, rootID string, log *logrus.Logger) (*Destination, error) {
	raw, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode service-account key")
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gdrive.DriveScope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse service-account key")
	}

	svc, err := gdrive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create drive service")
	}

	return &Destination{api: &driveAPI{svc: svc}, rootID: rootID, log: log}, nil
}

// Resolve ensures rootID → "The Farm" → "Inbound" → dateStamp exists,
// reusing folders where present, and returns the leaf folder id. Re-running
// with identical inputs converges to the same leaf without duplicates.
func (d *Destination) Resolve(ctx context.Context, dateStamp string) (ports.Handle, error) {
	parent := d.rootID
	for _, name := range []string{farmFolder, inboundFolder, dateStamp} {
		id, err := d.ensureFolder(ctx, parent, name)
		if err != nil {
			return "", errors.Wrapf(err, "failed to ensure folder %q", name)
		}
		parent = id
	}
	return ports.Handle(parent), nil
}

func (d *Destination) ensureFolder(ctx context.Context, parentID, name string) (string, error) {
	id, err := d.api.FindFolder(ctx, parentID, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	d.log.Debugf("creating drive folder %q under %s", name, parentID)
	return d.api.CreateFolder(ctx, parentID, name)
}

// Deliver uploads the local file at path into the resolved folder. No
// existence check is performed; a same-named entry from an earlier run on
// the same day is simply shadowed.
func (d *Destination) Deliver(ctx context.Context, h ports.Handle, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	if err := d.api.Upload(ctx, string(h), name, f); err != nil {
		return errors.Wrapf(err, "failed to upload %s", name)
	}
	return nil
}
