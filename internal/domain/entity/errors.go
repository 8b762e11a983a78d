package entity

import "errors"

var (
	// ErrImageNotFound файл изображения не существует
	ErrImageNotFound = errors.New("image not found")

	// ErrImageDecode файл существует, но не декодируется как изображение
	ErrImageDecode = errors.New("could not decode image")

	// ErrEmptyImage изображение без пикселей
	ErrEmptyImage = errors.New("empty image")

	// ErrUnknownMode неизвестный режим анализа
	ErrUnknownMode = errors.New("unknown analysis mode")

	// ErrUnclassifiedInstance у экземпляра нет категории при сборке результата
	ErrUnclassifiedInstance = errors.New("instance has no category")

	// ErrInvalidParams некорректные настройки конвейера
	ErrInvalidParams = errors.New("invalid pipeline params")

	// ErrVisionDisabled сборка без тега gocv
	ErrVisionDisabled = errors.New("gocv build tag is not enabled")
)
