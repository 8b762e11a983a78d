package imagefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions расширения файлов, которые считаются изображениями
var Extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// IsImage проверяет расширение файла без учёта регистра
func IsImage(path string) bool {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

// ListImages разворачивает пути в отсортированный список файлов изображений.
// Каталоги просматриваются без рекурсии. Пропущенные пути возвращаются
// как предупреждения и не прерывают обход.
func ListImages(paths []string) ([]string, []string) {
	seen := make(map[string]bool)
	var files, warnings []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				warnings = append(warnings, fmt.Sprintf("path not found: %s", p))
			} else {
				warnings = append(warnings, fmt.Sprintf("cannot access %s: %v", p, err))
			}
			continue
		}

		if !info.IsDir() {
			if IsImage(p) {
				add(p)
			} else {
				warnings = append(warnings, fmt.Sprintf("skipping non-image file: %s", p))
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot read directory %s: %v", p, err))
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && IsImage(e.Name()) {
				add(filepath.Join(p, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, warnings
}
