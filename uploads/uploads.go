package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const PublicPrefix string = "/uploads"

var (
	ErrInvalidImage = errors.New("The image must be a png, jpg, jpeg, gif or webp file.")

	allowedExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	unsafeChars       = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

func IsAllowedImage(name string) bool {
	name = strings.TrimSpace(name)

	if len(name) < 1 {
		return false
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	for _, e := range allowedExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

// SanitizeFilename strips accents, path separators and anything outside
// [A-Za-z0-9_.-] from a client supplied name.
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	clean, _, err := transform.String(t, name)
	if err != nil {
		clean = name
	}

	clean = strings.NewReplacer("/", " ", "\\", " ").Replace(clean)
	clean = strings.Join(strings.Fields(clean), "_")
	clean = unsafeChars.ReplaceAllString(clean, "")

	return strings.Trim(clean, "._")
}

// Disk stores images under a directory, each name prefixed with the upload
// time in milliseconds.
type Disk struct {
	dir string
	now func() time.Time
}

func NewDisk(dir string) (*Disk, error) {
	if len(strings.TrimSpace(dir)) < 1 {
		dir = "uploads"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("Could not create upload directory: %w", err)
	}

	return &Disk{dir: dir, now: time.Now}, nil
}

func (d *Disk) Dir() string {
	return d.dir
}

// Save writes the image and returns its public path. Names that are not
// allowed images return ErrInvalidImage.
func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if !IsAllowedImage(name) {
		return "", ErrInvalidImage
	}

	clean := SanitizeFilename(name)

	if !IsAllowedImage(clean) || strings.HasPrefix(clean, ".") {
		clean = uuid.NewString() + strings.ToLower(filepath.Ext(name))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d_%s", d.now().UnixMilli(), clean)

	f, err := os.OpenFile(filepath.Join(d.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		filename = fmt.Sprintf("%d_%s_%s", d.now().UnixMilli(), uuid.NewString()[:8], clean)
		f, err = os.OpenFile(filepath.Join(d.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("Could not create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("Could not write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("Could not save image file: %w", err)
	}

	return path.Join(PublicPrefix, filename), nil
}

// Remove deletes a previously saved image given its public path.
func (d *Disk) Remove(publicPath string) error {
	name := path.Base(publicPath)

	if name == "." || name == "/" || len(name) < 1 {
		return nil
	}

	if err := os.Remove(filepath.Join(d.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
