package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// PublicPrefix is the URL prefix stored images are served under.
const PublicPrefix = "/uploads"

var (
	dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,`)
	folderPattern  = regexp.MustCompile(`[^a-z0-9_-]+`)
)

var allowedImageTypes = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
}

// ImageStore writes base64 data-URI images below a root directory and
// returns paths of the form /uploads/<folder>/<uuid>.<ext>.
type ImageStore struct {
	root string
	log  zerolog.Logger
}

func NewImageStore(root string, log zerolog.Logger) *ImageStore {
	return &ImageStore{root: filepath.Clean(root), log: log}
}

// Root returns the directory images are written to.
func (s *ImageStore) Root() string {
	return s.root
}

// Save decodes encoded and stores it under folder. An empty input stores
// nothing and returns an empty path.
func (s *ImageStore) Save(encoded, folder string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", nil
	}

	m := dataURIPattern.FindStringSubmatch(encoded)
	if m == nil {
		return "", fmt.Errorf("%w: only PNG, JPG and JPEG data URIs are allowed", domain.ErrInvalidImage)
	}
	ext, ok := allowedImageTypes[strings.ToLower(m[1])]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidImage, m[1])
	}

	data, err := base64.StdEncoding.DecodeString(stripWhitespace(encoded[len(m[0]):]))
	if err != nil || len(data) == 0 {
		return "", fmt.Errorf("%w: undecodable base64 payload", domain.ErrInvalidImage)
	}

	folder = sanitizeFolder(folder)
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	public := path.Join(PublicPrefix, folder, name)
	s.log.Debug().Str("image", public).Msg("image saved")
	return public, nil
}

// Delete removes a previously stored image. Missing files are not an error.
func (s *ImageStore) Delete(publicPath string) error {
	full, err := s.resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	s.log.Debug().Str("image", publicPath).Msg("image deleted")
	return nil
}

// resolve maps a public path back onto the filesystem and refuses anything
// that would land outside the root.
func (s *ImageStore) resolve(publicPath string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+publicPath), PublicPrefix)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	within, err := filepath.Rel(s.root, full)
	if err != nil || within == "." || strings.HasPrefix(within, "..") {
		return "", fmt.Errorf("delete image: path %q outside upload root", publicPath)
	}
	return full, nil
}

func sanitizeFolder(folder string) string {
	folder = folderPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(folder)), "")
	if folder == "" {
		return "misc"
	}
	return folder
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
