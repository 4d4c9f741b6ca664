package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/omerfarooq-dev/formflow/constants"
)

// AllowedExt checks if a file extension is in the supported set.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// ScanStats summarizes one directory scan.
type ScanStats struct {
	Seen       int
	Skipped    int
	Duplicates int
}

// Scanner discovers candidate upload files on the local filesystem.
// Duplicate content (by SHA-256) within one scan is dropped so the same
// scan never feeds a run the same bytes twice.
type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanDirectory walks root recursively and returns absolute paths of
// supported, non-hidden files in walk order.
func (s *Scanner) ScanDirectory(root string, recursive bool) ([]string, ScanStats, error) {
	var (
		out   []string
		stats ScanStats
	)
	seen := map[string]string{} // content hash -> first path

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, fmt.Errorf("abs path: %w", err)
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && (IsHidden(path) || !recursive) {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Seen++
		if IsHidden(path) || !AllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}
		sum, err := hashFile(path)
		if err != nil {
			s.logger.Warn("intake.scan.hash_failed", "path", path, "error", err)
			stats.Skipped++
			return nil
		}
		if first, dup := seen[sum]; dup {
			s.logger.Info("intake.scan.duplicate", "path", path, "first", first)
			stats.Duplicates++
			return nil
		}
		seen[sum] = path
		out = append(out, path)
		return nil
	})
	if walkErr != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	s.logger.Info("intake.scan.ok",
		"root", absRoot, "files", len(out),
		"seen", stats.Seen, "skipped", stats.Skipped, "duplicates", stats.Duplicates,
	)
	return out, stats, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
