// Package filestore saves return-request evidence images under the uploads
// directory and keeps a small thumbnail next to each original.
package filestore

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const thumbnailEdge = 300

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// SaveReturnImages stores the uploaded files and returns their public URLs
// (paths under /uploads). Already saved files are removed again when any
// later file fails, so a request never keeps a partial image set.
func (s *Store) SaveReturnImages(files []*multipart.FileHeader, userID, orderID, bookID uint) ([]string, error) {
	dir := filepath.Join(s.baseDir, "returns")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var urls []string
	for _, header := range files {
		name := fmt.Sprintf("u%d_o%d_b%d_%s%s", userID, orderID, bookID,
			uuid.NewString(), sanitizeExt(header.Filename))
		dest := filepath.Join(dir, name)

		if err := saveFile(header, dest); err != nil {
			s.Delete(urls)
			return nil, fmt.Errorf("failed to save image %s: %w", header.Filename, err)
		}
		writeThumbnail(dest)
		urls = append(urls, "/uploads/returns/"+name)
	}
	return urls, nil
}

// Delete removes stored images and their thumbnails. Missing files are not
// an error.
func (s *Store) Delete(urls []string) {
	for _, url := range urls {
		rel := strings.TrimPrefix(url, "/uploads/")
		path := filepath.Join(s.baseDir, filepath.FromSlash(rel))
		_ = os.Remove(path)
		_ = os.Remove(thumbnailPath(path))
	}
}

func saveFile(header *multipart.FileHeader, dest string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Sync()
}

// writeThumbnail renders a bounded-size JPEG next to the original. Files
// that do not decode as images are kept as-is without a thumbnail.
func writeThumbnail(path string) {
	in, err := os.Open(path)
	if err != nil {
		return
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return
	}

	thumb := resize.Thumbnail(thumbnailEdge, thumbnailEdge, img, resize.Lanczos3)
	out, err := os.Create(thumbnailPath(path))
	if err != nil {
		log.Printf("failed to create thumbnail for %s: %v", path, err)
		return
	}
	defer out.Close()
	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 80}); err != nil {
		log.Printf("failed to encode thumbnail for %s: %v", path, err)
	}
}

func thumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb.jpg"
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return ext
	default:
		return ".bin"
	}
}
