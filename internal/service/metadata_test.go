package service

import (
	"testing"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildMetadata(t *testing.T) {
	tests := []struct {
		keyword string
		want    models.SEOMetadata
	}{
		{
			keyword: "red running SHOES",
			want: models.SEOMetadata{
				Title:       "Red running shoes | Optimised Photo",
				Description: "Optimised image about red running SHOES for web and social.",
				Alt:         "Red running shoes - SEO optimised image",
				Hashtags:    "#red #running #shoes",
			},
		},
		{
			keyword: "Café & Bar 2024, best ever one two",
			want: models.SEOMetadata{
				Title:       "Café & bar 2024, best ever one two | Optimised Photo",
				Description: "Optimised image about Café & Bar 2024, best ever one two for web and social.",
				Alt:         "Café & bar 2024, best ever one two - SEO optimised image",
				Hashtags:    "#caf #bar #2024 #best #ever",
			},
		},
		{
			keyword: "котики",
			want: models.SEOMetadata{
				Title:       "Котики | Optimised Photo",
				Description: "Optimised image about котики for web and social.",
				Alt:         "Котики - SEO optimised image",
				Hashtags:    "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMetadata(tt.keyword))
		})
	}
}

func TestBuildMetadata_EmptyKeyword(t *testing.T) {
	meta := BuildMetadata("  ")
	assert.Equal(t, "Image | Optimised Photo", meta.Title)
	assert.Equal(t, "Image - SEO optimised image", meta.Alt)
	assert.Empty(t, meta.Hashtags)
}
