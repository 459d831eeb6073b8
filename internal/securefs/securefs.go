package securefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"passpack/internal/logging"
)

const (
	// DirMode is the owner-only mode applied to every pipeline directory.
	DirMode os.FileMode = 0o700
	// FileMode is the owner-only mode applied to every pipeline file.
	FileMode os.FileMode = 0o600
)

// fallbackOutputDir receives artifacts when the configured output root is not
// writable.
var fallbackOutputDir = filepath.Join(os.TempDir(), "passpack-output")

func safeChmod(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			// We may not own files on bind-mounted paths; keep processing.
			return nil
		}
		return err
	}
	return nil
}

// EnsureSecureDir creates path (and parents) with owner-only permissions.
func EnsureSecureDir(path string) error {
	if err := os.MkdirAll(path, DirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return safeChmod(path, DirMode)
}

// EnsureSecureFile tightens an existing regular file to owner-only
// read/write. Missing files are ignored.
func EnsureSecureFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return safeChmod(path, FileMode)
}

// EnsureSecureTree walks an existing directory tree applying the directory
// and file policies to every entry.
func EnsureSecureTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return EnsureSecureFile(root)
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return safeChmod(path, DirMode)
		}
		return EnsureSecureFile(path)
	})
}

// Cleanup removes the working directory recursively and, when given, the
// archive file. It is the universal terminal action for a ticket run and
// must be invoked on every exit path.
func Cleanup(workDir, archivePath string) error {
	var errs []error
	if workDir != "" {
		if err := os.RemoveAll(workDir); err != nil {
			errs = append(errs, fmt.Errorf("remove working directory %s: %w", workDir, err))
		}
	}
	if archivePath != "" {
		if err := os.Remove(archivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove archive %s: %w", archivePath, err))
		}
	}
	return errors.Join(errs...)
}

// ResolveWritableRoot secures the preferred output root and verifies it is
// writable with a throwaway probe file. On any failure it falls back to a
// fixed temp location, logging the substitution. Runs once per pipeline run,
// before any ticket is processed.
func ResolveWritableRoot(preferred string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := probeDir(preferred); err != nil {
		logger.Warn("output directory not writable, falling back",
			logging.String("output_dir", preferred),
			logging.String("fallback", fallbackOutputDir),
			logging.Error(err))
		if err := probeDir(fallbackOutputDir); err != nil {
			return "", fmt.Errorf("fallback output directory %s: %w", fallbackOutputDir, err)
		}
		return fallbackOutputDir, nil
	}
	return preferred, nil
}

func probeDir(dir string) error {
	if err := EnsureSecureDir(dir); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".write_probe")
	if err := os.WriteFile(probe, []byte("ok"), FileMode); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("remove probe: %w", err)
	}
	return nil
}
