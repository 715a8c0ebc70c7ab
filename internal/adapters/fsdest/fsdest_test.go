package fsdest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalCreatesHierarchy(t *testing.T) {
	root := filepath.Join(t.TempDir(), "farm")
	d := NewLocal(root)

	leaf, err := d.Resolve(context.Background(), "2024-05-01")
	require.NoError(t, err)

	expected := filepath.Join(root, "The Farm", "Inbound", "2024-05-01")
	assert.Equal(t, expected, string(leaf))

	info, err := os.Stat(expected)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveIsIdempotent(t *testing.T) {
	d := NewLocal(t.TempDir())

	first, err := d.Resolve(context.Background(), "2024-05-01")
	require.NoError(t, err)
	second, err := d.Resolve(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveMissingMountFails(t *testing.T) {
	d := NewMount(filepath.Join(t.TempDir(), "not-mounted"))

	_, err := d.Resolve(context.Background(), "2024-05-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestResolveMountFileNotDirectory(t *testing.T) {
	mount := filepath.Join(t.TempDir(), "usb")
	require.NoError(t, os.WriteFile(mount, nil, 0644))

	_, err := NewMount(mount).Resolve(context.Background(), "2024-05-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestDeliverCopiesFile(t *testing.T) {
	d := NewLocal(t.TempDir())
	leaf, err := d.Resolve(context.Background(), "2024-05-01")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "scratch.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video bytes"), 0644))

	require.NoError(t, d.Deliver(context.Background(), leaf, "Alpha-c1.mp4", src))

	got, err := os.ReadFile(filepath.Join(string(leaf), "Alpha-c1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, []byte("video bytes"), got)
}

func TestDeliverOverwrites(t *testing.T) {
	d := NewLocal(t.TempDir())
	leaf, err := d.Resolve(context.Background(), "2024-05-01")
	require.NoError(t, err)

	dir := t.TempDir()
	first := filepath.Join(dir, "a.mp4")
	second := filepath.Join(dir, "b.mp4")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("new"), 0644))

	require.NoError(t, d.Deliver(context.Background(), leaf, "clip.mp4", first))
	require.NoError(t, d.Deliver(context.Background(), leaf, "clip.mp4", second))

	got, err := os.ReadFile(filepath.Join(string(leaf), "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}
