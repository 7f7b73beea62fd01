// Package assets вычисляет пути к изображениям карточек туров.
package assets

import (
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// URLPrefix - префикс, под которым раздается каталог ассетов.
	URLPrefix = "/assets/"
	// DefaultThumbnail показывается, если изображение направления не найдено.
	DefaultThumbnail = URLPrefix + "tour-thumbnail/default.jpg"
)

// ThumbnailPath строит путь к изображению по имени направления: каждое слово с заглавной
// буквы, слова склеиваются ("north goa" -> /assets/tour-thumbnail/NorthGoa.jpg).
func ThumbnailPath(destination string) string {
	if destination == "" {
		return DefaultThumbnail
	}
	caser := cases.Title(language.Und)
	words := strings.Split(destination, " ")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return URLPrefix + path.Join("tour-thumbnail", strings.Join(words, "")+".jpg")
}

// Resolver проверяет, что изображение существует, и один раз подменяет его изображением
// по умолчанию. Повторных попыток нет.
type Resolver struct {
	fsys fs.FS
}

// NewResolver создает Resolver поверх каталога ассетов. При nil проверка файла не выполняется.
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Resolve возвращает путь к изображению направления или DefaultThumbnail.
func (r *Resolver) Resolve(destination string) string {
	p := ThumbnailPath(destination)
	if p == DefaultThumbnail || r == nil || r.fsys == nil {
		return p
	}
	if _, err := fs.Stat(r.fsys, strings.TrimPrefix(p, URLPrefix)); err != nil {
		return DefaultThumbnail
	}
	return p
}
