package urlutil

import "strings"

// ResolveFavicon turns a <link rel=icon> href into an absolute URL using base
// (the final page URL after redirects). It returns false when no valid URL
// can be produced.
//
// Relative candidates resolve against the directory of base's path, so
// "img/icon.png" on https://a.test/docs/page becomes https://a.test/docs/img/icon.png.
func ResolveFavicon(base, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)

	var resolved string
	switch {
	case strings.HasPrefix(candidate, "//"):
		resolved = "https:" + candidate
	case strings.HasPrefix(candidate, "http://"), strings.HasPrefix(candidate, "https://"):
		resolved = candidate
	default:
		b, err := Parse(base)
		if err != nil {
			return "", false
		}
		origin := Origin(b)
		switch {
		case candidate == "":
			resolved = origin + "/favicon.ico"
		case strings.HasPrefix(candidate, "/"):
			resolved = origin + candidate
		default:
			resolved = origin + directory(b.EscapedPath()) + candidate
		}
	}

	if _, err := Parse(resolved); err != nil {
		return "", false
	}
	return resolved, true
}

// directory strips the last path segment, keeping the trailing slash.
func directory(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path[:strings.LastIndex(path, "/")+1]
}
