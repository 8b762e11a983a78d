package port

import "image"

// ImageSource интерфейс загрузки изображений для анализа
type ImageSource interface {
	// Load читает изображение из файла
	Load(path string) (image.Image, error)

	// Decode разбирает изображение из байтов
	Decode(data []byte) (image.Image, error)
}
