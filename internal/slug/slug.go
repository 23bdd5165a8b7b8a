// Package slug формирует SEO-имена файлов из произвольного ключевого слова.
// Имя всегда безопасно для файловой системы и URL и снабжено токеном уникальности,
// поэтому одинаковые ключевые слова параллельных загрузок не приводят к коллизиям.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultFallback используется, когда после очистки от ключевого слова ничего не осталось.
const DefaultFallback = "image"

// DefaultExtension подставляется для файлов без расширения.
const DefaultExtension = "jpg"

var (
	unsafeRun = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRun   = regexp.MustCompile(`-{2,}`)
	extUnsafe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify приводит ключевое слово к виду [a-z0-9-]+.
// Пустой результат заменяется на fallback (или DefaultFallback, если fallback тоже пуст).
func Slugify(keyword, fallback string) string {
	s := strings.ToLower(strings.TrimSpace(keyword))
	s = unsafeRun.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s != "" {
		return s
	}

	fallback = strings.Trim(unsafeRun.ReplaceAllString(strings.ToLower(fallback), "-"), "-")
	if fallback == "" {
		return DefaultFallback
	}
	return fallback
}

// Extension нормализует расширение: без точки, в нижнем регистре, только [a-z0-9].
func Extension(ext string) string {
	ext = extUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(ext)), "")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}

// Deriver выдает имена файлов вида {slug}-{token}.{ext}.
// Токен - Unix-время в миллисекундах, строго возрастающее в пределах одного Deriver.
type Deriver struct {
	fallback string
	now      func() time.Time
	last     atomic.Int64
}

// NewDeriver создает Deriver с заданным резервным токеном.
func NewDeriver(fallback string) *Deriver {
	return &Deriver{
		fallback: fallback,
		now:      time.Now,
	}
}

// Filename возвращает имя файла для ключевого слова и расширения исходного файла.
// Ошибок не бывает: пустое или состоящее из символов ключевое слово дает fallback.
func (d *Deriver) Filename(keyword, extension string) string {
	return Slugify(keyword, d.fallback) + "-" + strconv.FormatInt(d.token(), 10) + "." + Extension(extension)
}

func (d *Deriver) token() int64 {
	for {
		now := d.now().UnixMilli()
		last := d.last.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if d.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
