// Package imagefile загружает и сохраняет изображения для анализатора спелости.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

// Load читает изображение с диска с учётом EXIF-ориентации.
// Отсутствующий файл даёт entity.ErrImageNotFound, нечитаемый entity.ErrImageDecode.
func Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrImageDecode, path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyImage, path)
	}
	return img, nil
}

// Decode разбирает изображение из байтов (например, фото из Telegram)
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrImageDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, entity.ErrEmptyImage
	}
	return img, nil
}

// Fit уменьшает изображение так, чтобы большая сторона не превышала maxSide.
// maxSide <= 0 и маленькие изображения возвращаются без изменений.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// EncodeJPEG кодирует изображение в JPEG с качеством 90
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG записывает изображение в PNG, создавая недостающие каталоги
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Source загрузчик изображений, уменьшающий их до MaxSide по большей стороне
type Source struct {
	MaxSide int
}

// NewSource создаёт загрузчик. maxSide <= 0 отключает уменьшение.
func NewSource(maxSide int) *Source {
	return &Source{MaxSide: maxSide}
}

// Load читает и при необходимости уменьшает изображение
func (s *Source) Load(path string) (image.Image, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Fit(img, s.MaxSide), nil
}

// Decode разбирает и при необходимости уменьшает изображение
func (s *Source) Decode(data []byte) (image.Image, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Fit(img, s.MaxSide), nil
}

var _ port.ImageSource = (*Source)(nil)
