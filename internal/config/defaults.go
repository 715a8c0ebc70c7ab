package config

const (
	defaultClipLimit    = 12
	defaultMinViews     = 800
	defaultBackend      = BackendDrive
	defaultRootFolderID = "root"
	defaultMountPath    = "/mnt/usb"
	defaultLocalDir     = "./farm"
	defaultLogLevel     = "info"
)

// Fixed discovery bounds. These mirror the scheduled-job behaviour and are
// not configurable.
const (
	// TopCreatorCount is how many live channels to take in top-live mode.
	TopCreatorCount = 10
	// RecentClipCount is the per-creator clip cap in top-live mode.
	RecentClipCount = 10
	// WindowClipCount is the per-creator clip cap in explicit-creator mode.
	WindowClipCount = 20
)
