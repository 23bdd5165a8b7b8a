package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
)

// maxHashtags - сколько слов ключевого слова попадает в хэштеги
const maxHashtags = 5

var hashtagUnsafe = regexp.MustCompile(`[^a-z0-9 ]`)

// BuildMetadata строит SEO-атрибуты изображения по ключевому слову.
func BuildMetadata(keyword string) models.SEOMetadata {
	base := capitalize(strings.TrimSpace(keyword))
	if base == "" {
		base = "Image"
	}

	return models.SEOMetadata{
		Title:       fmt.Sprintf("%s | Optimised Photo", base),
		Description: fmt.Sprintf("Optimised image about %s for web and social.", keyword),
		Alt:         fmt.Sprintf("%s - SEO optimised image", base),
		Hashtags:    hashtags(keyword),
	}
}

// capitalize переводит первую букву в верхний регистр, остальные в нижний.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func hashtags(keyword string) string {
	words := strings.Fields(hashtagUnsafe.ReplaceAllString(strings.ToLower(keyword), ""))
	if len(words) > maxHashtags {
		words = words[:maxHashtags]
	}
	tags := make([]string, 0, len(words))
	for _, w := range words {
		tags = append(tags, "#"+w)
	}
	return strings.Join(tags, " ")
}
