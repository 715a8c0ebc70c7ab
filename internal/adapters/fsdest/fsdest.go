package fsdest

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"farmbot/internal/core/ports"
)

const (
	farmFolder    = "The Farm"
	inboundFolder = "Inbound"
)

// Destination implements ports.Destination on a local filesystem tree,
// either a removable mount or a plain directory.
type Destination struct {
	root string

	// requireRoot makes a missing root fatal instead of created. Set for
	// removable mounts, where a missing mount point means the media is
	// not plugged in.
	requireRoot bool
}

// NewMount returns a destination rooted at a removable mount point. The
// mount must already exist when Resolve is called.
func NewMount(mountPath string) *Destination {
	return &Destination{root: mountPath, requireRoot: true}
}

// NewLocal returns a destination rooted at a local directory, created on
// demand.
func NewLocal(dir string) *Destination {
	return &Destination{root: dir}
}

// Resolve creates root/"The Farm"/"Inbound"/dateStamp and returns its path.
func (d *Destination) Resolve(_ context.Context, dateStamp string) (ports.Handle, error) {
	if d.requireRoot {
		info, err := os.Stat(d.root)
		if err != nil {
			return "", errors.Wrapf(err, "mount point %s is not available", d.root)
		}
		if !info.IsDir() {
			return "", errors.Errorf("mount point %s is not a directory", d.root)
		}
	}

	leaf := filepath.Join(d.root, farmFolder, inboundFolder, dateStamp)
	if err := os.MkdirAll(leaf, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create delivery directory %s", leaf)
	}
	return ports.Handle(leaf), nil
}

// Deliver copies the local file at path into the resolved directory under
// name, overwriting any existing file.
func (d *Destination) Deliver(_ context.Context, h ports.Handle, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer src.Close()

	target := filepath.Join(string(h), name)
	dst, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", target)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "failed to copy %s", name)
	}
	return nil
}
