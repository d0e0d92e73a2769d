// Package videoembed maps raw video URLs from the supported hosts
// (YouTube, Facebook, fb.watch, Instagram) to embeddable player URLs and
// static thumbnail URLs. Both functions are pure and never panic on
// malformed input: embed derivation reports failure, thumbnail derivation
// falls back to a neutral placeholder so listing pages always have
// something to show.
package videoembed

import (
	"net/url"
	"regexp"
	"strings"
)

// PlaceholderThumbnail is a solid black 640x360 frame embedded as a data
// URI, used whenever no host-specific thumbnail can be derived.
const PlaceholderThumbnail = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNjQwIiBoZWlnaHQ9IjM2MCIgdmlld0JveD0iMCAwIDY0MCAzNjAiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+PHJlY3Qgd2lkdGg9IjY0MCIgaGVpZ2h0PSIzNjAiIGZpbGw9IiMwMDAiIC8+PC9zdmc+"

var (
	instagramPostRe = regexp.MustCompile(`/(p|reel)/([^/]+)`)
	facebookVideoRe = regexp.MustCompile(`/videos/(\d+)`)
)

// EmbedURL derives an iframe-compatible player URL from a raw video URL.
// It reports false for unrecognized hosts and for recognized hosts where
// no video id can be extracted.
func EmbedURL(raw string) (string, bool) {
	switch {
	case strings.Contains(raw, "youtu.be/"), strings.Contains(raw, "youtube.com"):
		id := youTubeID(raw)
		if id == "" {
			return "", false
		}
		return "https://www.youtube.com/embed/" + id, true

	case strings.Contains(raw, "facebook.com"), strings.Contains(raw, "fb.watch"):
		// The Facebook plugin accepts the original link directly, so no id
		// extraction is needed. Captions are disabled.
		return "https://www.facebook.com/plugins/video.php?href=" + url.QueryEscape(raw) + "&show_text=0", true

	case strings.Contains(raw, "instagram.com"):
		clean := raw
		if i := strings.Index(clean, "?"); i >= 0 {
			clean = clean[:i]
		}
		clean = strings.TrimSuffix(clean, "/")
		m := instagramPostRe.FindStringSubmatch(clean)
		if m == nil {
			return "", false
		}
		return "https://www.instagram.com/" + m[1] + "/" + m[2] + "/embed", true
	}

	return "", false
}

// ThumbnailURL derives a static preview image URL from a raw video URL.
// It always returns a usable image reference; unrecognized hosts and
// unparseable input yield PlaceholderThumbnail. Instagram has no public
// thumbnail endpoint and falls through to the placeholder.
func ThumbnailURL(raw string) string {
	if strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be") {
		id := youTubeID(raw)
		if id == "" {
			// Embed-form URLs carry the id as the last path segment.
			id = lastPathSegment(raw)
		}
		if id != "" {
			return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
		}
		return PlaceholderThumbnail
	}

	if strings.Contains(raw, "facebook.com") {
		if m := facebookVideoRe.FindStringSubmatch(raw); m != nil {
			return "https://graph.facebook.com/" + m[1] + "/picture"
		}
		return PlaceholderThumbnail
	}

	if i := strings.Index(raw, "fb.watch/"); i >= 0 {
		id := raw[i+len("fb.watch/"):]
		if j := strings.IndexAny(id, "/?"); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return "https://graph.facebook.com/" + id + "/picture"
		}
	}

	return PlaceholderThumbnail
}

// youTubeID extracts the video id from either YouTube URL form: the short
// youtu.be path, the watch URL's v parameter, or a /shorts/ path.
func youTubeID(raw string) string {
	if i := strings.Index(raw, "youtu.be/"); i >= 0 {
		id := raw[i+len("youtu.be/"):]
		if j := strings.IndexAny(id, "?&"); j >= 0 {
			id = id[:j]
		}
		return strings.TrimSuffix(id, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if i := strings.Index(u.Path, "/shorts/"); i >= 0 {
		id := u.Path[i+len("/shorts/"):]
		if j := strings.Index(id, "/"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	return ""
}

func lastPathSegment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return ""
}
