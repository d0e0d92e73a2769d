package videoembed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndelchev/newsfront/internal/videoembed"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "youtube watch",
			input:  "https://www.youtube.com/watch?v=ABC123",
			want:   "https://www.youtube.com/embed/ABC123",
			wantOK: true,
		},
		{
			name:   "youtube short link with params",
			input:  "https://youtu.be/XYZ789?t=5",
			want:   "https://www.youtube.com/embed/XYZ789",
			wantOK: true,
		},
		{
			name:   "youtube short link ampersand",
			input:  "https://youtu.be/XYZ789&feature=share",
			want:   "https://www.youtube.com/embed/XYZ789",
			wantOK: true,
		},
		{
			name:   "youtube shorts",
			input:  "https://www.youtube.com/shorts/sh0rt1d",
			want:   "https://www.youtube.com/embed/sh0rt1d",
			wantOK: true,
		},
		{
			name:   "youtube watch without id",
			input:  "https://www.youtube.com/feed/subscriptions",
			wantOK: false,
		},
		{
			name:   "facebook video",
			input:  "https://www.facebook.com/someone/videos/123456/",
			want:   "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fsomeone%2Fvideos%2F123456%2F&show_text=0",
			wantOK: true,
		},
		{
			name:   "instagram reel",
			input:  "https://www.instagram.com/reel/Cxyz123/?utm_source=ig",
			want:   "https://www.instagram.com/reel/Cxyz123/embed",
			wantOK: true,
		},
		{
			name:   "instagram post",
			input:  "https://www.instagram.com/p/Babc456",
			want:   "https://www.instagram.com/p/Babc456/embed",
			wantOK: true,
		},
		{
			name:   "instagram profile",
			input:  "https://www.instagram.com/someaccount/",
			wantOK: false,
		},
		{
			name:   "unrecognized host",
			input:  "https://vimeo.com/123456",
			wantOK: false,
		},
		{
			name:   "garbage",
			input:  "not a url at all",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := videoembed.EmbedURL(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.want, got)
			} else {
				require.Empty(t, got)
			}
		})
	}
}

func TestEmbedURLIsPure(t *testing.T) {
	first, ok1 := videoembed.EmbedURL("https://www.youtube.com/watch?v=ABC123")
	second, ok2 := videoembed.EmbedURL("https://www.youtube.com/watch?v=ABC123")
	require.Equal(t, ok1, ok2)
	require.Equal(t, first, second)
}

func TestThumbnailURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "youtube watch",
			input: "https://www.youtube.com/watch?v=ABC123",
			want:  "https://img.youtube.com/vi/ABC123/hqdefault.jpg",
		},
		{
			name:  "youtube short link",
			input: "https://youtu.be/XYZ789?t=5",
			want:  "https://img.youtube.com/vi/XYZ789/hqdefault.jpg",
		},
		{
			name:  "youtube embed form",
			input: "https://www.youtube.com/embed/ABC123",
			want:  "https://img.youtube.com/vi/ABC123/hqdefault.jpg",
		},
		{
			name:  "youtube embed form trailing slash",
			input: "https://www.youtube.com/embed/ABC123/",
			want:  "https://img.youtube.com/vi/ABC123/hqdefault.jpg",
		},
		{
			name:  "facebook direct video",
			input: "https://www.facebook.com/someone/videos/987654/",
			want:  "https://graph.facebook.com/987654/picture",
		},
		{
			name:  "fb watch",
			input: "https://fb.watch/abc123/",
			want:  "https://graph.facebook.com/abc123/picture",
		},
		{
			name:  "fb watch with query",
			input: "https://fb.watch/abc123?mibextid=x",
			want:  "https://graph.facebook.com/abc123/picture",
		},
		{
			name:  "facebook non video path",
			input: "https://www.facebook.com/someone/posts/1",
			want:  videoembed.PlaceholderThumbnail,
		},
		{
			name:  "instagram falls back to placeholder",
			input: "https://www.instagram.com/reel/Cxyz123/",
			want:  videoembed.PlaceholderThumbnail,
		},
		{
			name:  "unrecognized host",
			input: "https://vimeo.com/123456",
			want:  videoembed.PlaceholderThumbnail,
		},
		{
			name:  "garbage",
			input: "%%% not a url",
			want:  videoembed.PlaceholderThumbnail,
		},
		{
			name:  "empty",
			input: "",
			want:  videoembed.PlaceholderThumbnail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := videoembed.ThumbnailURL(tt.input)
			require.NotEmpty(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}
