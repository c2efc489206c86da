package listpending

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChangeDetails(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantURL         string
		wantDescription string
	}{
		{
			name:            "marker at end",
			text:            "Closed for good. [Photo: https://cdn.example.com/p.jpg?alt=media&token=abc]",
			wantURL:         "https://cdn.example.com/p.jpg?alt=media&token=abc",
			wantDescription: "Closed for good.",
		},
		{
			name:            "marker at start without space",
			text:            "[Photo:https://x.test/a.png]   Shop moved away  ",
			wantURL:         "https://x.test/a.png",
			wantDescription: "Shop moved away",
		},
		{
			name:            "marker in the middle keeps inner spacing",
			text:            "Before  [Photo: https://x.test/a.png]  after",
			wantURL:         "https://x.test/a.png",
			wantDescription: "Before    after",
		},
		{
			name:            "only first marker is extracted",
			text:            "[Photo: https://a.test/1] and [Photo: https://a.test/2]",
			wantURL:         "https://a.test/1",
			wantDescription: "and [Photo: https://a.test/2]",
		},
		{
			name:            "non http token still extracted",
			text:            "evidence [Photo: gs://bucket/img.jpg]",
			wantURL:         "gs://bucket/img.jpg",
			wantDescription: "evidence",
		},
		{
			name:            "marker only",
			text:            "[Photo: https://x.test/a.png]",
			wantURL:         "https://x.test/a.png",
			wantDescription: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, description := ParseChangeDetails(tt.text)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantDescription, description)
		})
	}
}

func TestParseChangeDetails_NoMarkerReturnsTextVerbatim(t *testing.T) {
	inputs := []string{
		"",
		"  padded text stays padded  ",
		"[Photo: ]",
		"[Photo https://x.test/a.png]",
		"[photo: https://x.test/a.png]",
		"[Photo: https://x.test/a.png",
		"Multi\nline\ttext",
	}

	for _, text := range inputs {
		url, description := ParseChangeDetails(text)
		assert.Empty(t, url, "input %q", text)
		assert.Equal(t, text, description, "input %q", text)
	}
}
