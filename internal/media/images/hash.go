package images

import (
	"crypto/md5" //nolint:gosec // MD5 is the lookup key used by image boards, not a security primitive
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/booruapp/tagsearch-server/internal/query"
)

// Extensions accepted by the image picker.
var allowedExtensions = []string{".png", ".gif", ".jpg", ".jpeg"}

// FilterPatterns returns the picker filter, e.g. "*.png *.gif *.jpg *.jpeg".
func FilterPatterns() string {
	patterns := make([]string, len(allowedExtensions))
	for i, ext := range allowedExtensions {
		patterns[i] = "*" + ext
	}
	return strings.Join(patterns, " ")
}

// AllowedExtension reports whether path has an extension the picker accepts.
// Matching is case-insensitive.
func AllowedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// HashBytes returns the lowercase hex MD5 digest of data.
func HashBytes(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// HashFile returns the lowercase hex MD5 digest of the file at path.
// A path that does not exist yields an empty hash and no error.
func HashFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	h := md5.New() //nolint:gosec // see import
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash image: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Prefix returns the reverse lookup token for hash, or "" for an empty hash.
func Prefix(hash string) string {
	return query.ReverseImagePrefix(hash)
}

// ResolvePath resolves a picker path. Relative paths are taken from baseDir,
// the directory the picker opens in.
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
