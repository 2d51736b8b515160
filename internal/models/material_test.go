package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidVideoURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want bool
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=abc123", true},
		{"youtube short link", "https://youtu.be/abc123", true},
		{"https mp4", "https://cdn.example.com/lesson.mp4", true},
		{"https webm uppercase", "https://cdn.example.com/lesson.WEBM", true},
		{"http mp4", "http://cdn.example.com/lesson.mp4", false},
		{"https no extension", "https://cdn.example.com/lesson", false},
		{"vimeo", "https://vimeo.com/12345", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidVideoURL(tc.url))
		})
	}
}

func TestValidMeetingURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want bool
	}{
		{"google meet", "https://meet.google.com/abc-defg-hij", true},
		{"google meet with query", "https://meet.google.com/abc-defg-hij?authuser=0", true},
		{"zoom join", "https://zoom.us/j/123456789", true},
		{"zoom subdomain with pwd", "https://us02web.zoom.us/j/123456789?pwd=secret", true},
		{"zoom without meeting id", "https://zoom.us/j/", false},
		{"plain site", "https://example.com/meeting", false},
		{"http meet", "http://meet.google.com/abc-defg-hij", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidMeetingURL(tc.url))
		})
	}
}

func TestValidExternalURL(t *testing.T) {
	assert.True(t, ValidExternalURL("https://example.com/article"))
	assert.False(t, ValidExternalURL("http://example.com/article"))
	assert.False(t, ValidExternalURL("https://"))
}

func TestMaterialValidateVariants(t *testing.T) {
	video := Material{Type: MaterialVideo, Video: &VideoFields{FilePath: "https://youtu.be/abc"}}
	_, ok := video.Validate()
	assert.True(t, ok)

	missingVariant := Material{Type: MaterialVideo}
	message, ok := missingVariant.Validate()
	assert.False(t, ok)
	assert.NotEmpty(t, message)

	quiz := Material{Type: MaterialQuiz}
	_, ok = quiz.Validate()
	assert.True(t, ok)

	unknown := Material{Type: MaterialType("hologram")}
	_, ok = unknown.Validate()
	assert.False(t, ok)
}
