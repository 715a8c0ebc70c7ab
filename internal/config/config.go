package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Backend selects the delivery destination.
type Backend string

const (
	// BackendDrive delivers into a Google Drive folder hierarchy.
	BackendDrive Backend = "drive"
	// BackendMount delivers onto a removable mount that must already exist.
	BackendMount Backend = "mount"
	// BackendLocal delivers into a local directory, created if missing.
	BackendLocal Backend = "local"
)

// Config is the immutable run configuration, built once from the process
// environment and passed explicitly into each component.
type Config struct {
	ClientID     string
	ClientSecret string

	// Channels is the explicit creator login list. Empty means top-live
	// discovery mode.
	Channels []string

	// Supplementary lists external video locators to slice 60-second
	// snippets from.
	Supplementary []string

	ClipLimit int
	MinViews  int

	Backend       Backend
	RootFolderID  string
	DriveKeyB64   string
	MountPath     string
	LocalDir      string
	RootDefaulted bool

	LogLevel string
}

// Load builds a Config from the process environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		ClientID:      os.Getenv("TWITCH_CLIENT_ID"),
		ClientSecret:  os.Getenv("TWITCH_CLIENT_SECRET"),
		Channels:      splitList(os.Getenv("TWITCH_CHANNELS")),
		Supplementary: splitList(os.Getenv("YT_CHANNELS")),
		Backend:       Backend(envOr("DEST_BACKEND", string(defaultBackend))),
		RootFolderID:  os.Getenv("ROOT_FOLDER_ID"),
		DriveKeyB64:   os.Getenv("GDRIVE_KEY_B64"),
		MountPath:     envOr("MOUNT_PATH", defaultMountPath),
		LocalDir:      envOr("LOCAL_DIR", defaultLocalDir),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
	}

	if cfg.RootFolderID == "" {
		cfg.RootFolderID = defaultRootFolderID
		cfg.RootDefaulted = true
	}

	var err error
	if cfg.ClipLimit, err = envInt("CLIP_LIMIT", defaultClipLimit); err != nil {
		return Config{}, err
	}
	if cfg.MinViews, err = envInt("MIN_VIEWS", defaultMinViews); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first fatal configuration problem.
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET must be set")
	}
	switch c.Backend {
	case BackendDrive:
		if c.DriveKeyB64 == "" {
			return errors.New("GDRIVE_KEY_B64 must be set for the drive backend")
		}
	case BackendMount, BackendLocal:
	default:
		return errors.Errorf("unknown DEST_BACKEND %q (want drive, mount or local)", c.Backend)
	}
	if c.ClipLimit < 0 {
		return errors.New("CLIP_LIMIT must be non-negative")
	}
	if c.MinViews < 0 {
		return errors.New("MIN_VIEWS must be non-negative")
	}
	return nil
}

// TopLiveMode reports whether discovery should use the most-viewed live
// channels instead of an explicit creator list.
func (c Config) TopLiveMode() bool {
	return len(c.Channels) == 0
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be an integer", key)
	}
	return n, nil
}
