package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nerrad567/hearth-core/internal/codec"
	"github.com/nerrad567/hearth-core/internal/home"
)

// fileMode keeps credentials readable by the owner only.
const fileMode fs.FileMode = 0o600

// dirMode is used when the data directory does not exist yet.
const dirMode fs.FileMode = 0o750

// Logger defines the logging interface used by the store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// File is a home stored at a fixed path.
type File struct {
	path   string
	logger Logger
}

// NewFile returns a store for the data file at path.
// The file does not need to exist yet.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	return &File{path: path, logger: noopLogger{}}, nil
}

// SetLogger sets the logger for the store.
func (f *File) SetLogger(logger Logger) {
	if logger == nil {
		f.logger = noopLogger{}
		return
	}
	f.logger = logger
}

// Path returns the data file location.
func (f *File) Path() string { return f.path }

// Load reads the home from disk.
//
// A missing file is not an error: it returns an empty Home so a first run
// starts clean.
//
// Returns:
//   - *home.Home: The loaded home
//   - error: A read error, or a codec error wrapping codec.ErrFormat or
//     codec.ErrUnknownVariant
func (f *File) Load() (*home.Home, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Info("data file not found, starting with empty home", "path", f.path)
		return home.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer file.Close()

	h, err := codec.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.path, err)
	}

	f.logger.Info("home loaded", "path", f.path, "users", h.Len(), "devices", h.DeviceCount())
	return h, nil
}

// Save rewrites the data file with the current home.
//
// The encoded home goes to a temporary file in the same directory, which is
// synced and then renamed over the destination. On any error the previous
// file is left in place.
func (f *File) Save(h *home.Home) error {
	if h == nil {
		return ErrNilHome
	}

	data, err := codec.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding home: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		return fmt.Errorf("setting data file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing data file: %w", err)
	}
	committed = true

	f.logger.Debug("home saved", "path", f.path, "bytes", len(data))
	return nil
}

// Quarantine moves an unreadable data file aside so the next Save does not
// overwrite it. The new name is the original with ".corrupt-<unix seconds>"
// appended.
//
// Returns:
//   - string: Where the file went, or "" if there was no file
//   - error: If the rename fails
func (f *File) Quarantine(now time.Time) (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%d", f.path, now.Unix())
	if err := os.Rename(f.path, dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("moving data file aside: %w", err)
	}
	f.logger.Warn("data file moved aside", "path", f.path, "moved_to", dest)
	return dest, nil
}
