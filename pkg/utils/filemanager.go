// =============================================================================
// Sales Data Merge - File Manager Utility
// =============================================================================
//
// File-system helpers for the pipeline:
//   - Directory creation for the analysis output tree
//   - Archival of processed input files (move with a collision-proof name)
//   - Error log generation next to the output
//
// ARCHIVAL STRATEGY:
//   Archived inputs keep their stem and extension and gain a timestamp plus
//   a short UUID, e.g. wetter_20190101_150405_1a2b3c4d.csv, so repeated runs
//   against same-named exports never overwrite an archive entry.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnsureDir creates dir (and any parents) when it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileManager moves processed files into an archive directory.
type FileManager struct {
	// ArchiveDir receives archived files. Created on first use.
	ArchiveDir string
}

// NewFileManager creates a FileManager for the given archive directory.
func NewFileManager(archiveDir string) *FileManager {
	return &FileManager{ArchiveDir: archiveDir}
}

// ArchiveFile moves path into the archive directory under a unique name and
// returns the destination path.
func (fm *FileManager) ArchiveFile(path string) (string, error) {
	if err := EnsureDir(fm.ArchiveDir); err != nil {
		return "", err
	}

	dest := filepath.Join(fm.ArchiveDir, archiveName(filepath.Base(path)))
	if err := moveFile(path, dest); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return dest, nil
}

// archiveName builds the unique archive file name.
func archiveName(base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := time.Now().Format("20060102_150405")
	short := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s%s", stem, stamp, short, ext)
}

// moveFile renames src to dest, falling back to copy-and-delete when the
// two paths live on different file systems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// WriteErrorLog writes the run's error messages to a timestamped log file
// inside dir and returns the log path.
func WriteErrorLog(dir string, messages []string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("errors_%s.log", time.Now().Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	for _, msg := range messages {
		if _, err := fmt.Fprintln(file, msg); err != nil {
			return "", fmt.Errorf("failed to write error log: %w", err)
		}
	}
	return path, nil
}
