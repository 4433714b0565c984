// Package uploads manages the service's image files. All files it creates
// live under a single managed directory, and only references into that
// directory are ever deleted.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// RefPrefix is the prefix of every reference the store hands out. It doubles
// as the URL path prefix under which the files are served.
const RefPrefix = "uploads/"

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// Store saves and deletes image files in the managed uploads directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at <publicDir>/uploads, creating the
// directory if needed.
func NewStore(publicDir string) (*Store, error) {
	if publicDir == "" {
		return nil, fmt.Errorf("public directory cannot be empty")
	}
	dir := filepath.Join(publicDir, "uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the managed directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes an uploaded image and returns its reference, e.g.
// "uploads/mug_1a2b3c4d.png". The extension must be on the allow-list
// (case-insensitive); a disallowed extension or empty filename yields an
// empty reference and no error, which callers treat as "no image". The
// stored name carries a random suffix so replacing an image never reuses a
// name and stale browser caches are bypassed.
func (s *Store) Save(r io.Reader, originalFilename string) (string, error) {
	if originalFilename == "" {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return "", nil
	}

	base := sanitizeBase(strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename)))
	name := fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return RefPrefix + name, nil
}

// Delete removes the file behind a reference. References outside the
// managed uploads area are ignored, as is an already-missing file.
func (s *Store) Delete(ref string) error {
	if !Managed(ref) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(ref, RefPrefix))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Managed reports whether a reference points into the managed uploads area.
func Managed(ref string) bool {
	return strings.HasPrefix(ref, RefPrefix) && ref != RefPrefix
}

func sanitizeBase(base string) string {
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "image"
	}
	return base
}
