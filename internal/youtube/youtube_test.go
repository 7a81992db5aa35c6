package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AcceptedShapes(t *testing.T) {
	cases := []struct {
		url string
		id  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"http://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		id, err := Validate(tc.url)
		assert.NoError(t, err, tc.url)
		assert.Equal(t, tc.id, id, tc.url)
	}
}

func TestValidate_Rejected(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"https://vimeo.com/12345",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/watch?v=waytoolongvideoid",
		"https://youtu.be/",
		"ftp://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}

	for _, url := range cases {
		_, err := Validate(url)
		assert.ErrorIs(t, err, ErrInvalidURL, url)
	}
}

func TestDerivedURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", EmbedURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", ThumbnailURL("dQw4w9WgXcQ"))
}
