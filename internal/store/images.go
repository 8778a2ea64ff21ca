package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/imaging"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

// UploadMessage is reported back for every successful upload.
const UploadMessage = "Image uploaded successfully"

// ImageStore keeps uploaded images as data URLs keyed by file name.
type ImageStore struct {
	base
}

// NewImageStore returns an ImageStore over kv.
func NewImageStore(kv *storage.Adapter, opts ...Option) *ImageStore {
	return &ImageStore{base: newBase(kv, opts)}
}

func (s *ImageStore) load(ctx context.Context) map[string]string {
	m := storage.Read(ctx, s.kv, storage.KeyUploadedImages, map[string]string{})
	if m == nil {
		m = map[string]string{}
	}
	return m
}

// Upload encodes the image read from r and stores it under a fresh file name
// derived from name.
func (s *ImageStore) Upload(ctx context.Context, name string, r io.Reader) (*model.UploadedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := filepath.Base(strings.TrimSpace(name))
	if file == "." || file == string(filepath.Separator) {
		return nil, apperror.ValidationFailed("filename", "file name is required")
	}

	enc, err := imaging.Encode(r)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", file, err)
	}

	filename := "image_" + s.newID() + "_" + file
	images := s.load(ctx)
	images[filename] = enc.DataURL
	storage.Write(ctx, s.kv, storage.KeyUploadedImages, images)

	return &model.UploadedImage{
		Filename: filename,
		URL:      enc.DataURL,
		Size:     enc.Size,
		Message:  UploadMessage,
	}, nil
}

// Get returns the data URL stored under filename.
func (s *ImageStore) Get(ctx context.Context, filename string) (string, bool) {
	url, ok := s.load(ctx)[filename]
	return url, ok
}

// List returns the stored file names in sorted order.
func (s *ImageStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	images := s.load(ctx)
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an uploaded image. Deleting an unknown file is a no-op.
func (s *ImageStore) Delete(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	images := s.load(ctx)
	if _, ok := images[filename]; !ok {
		return nil
	}
	delete(images, filename)
	storage.Write(ctx, s.kv, storage.KeyUploadedImages, images)
	return nil
}
