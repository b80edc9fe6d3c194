package resource

import (
	"strings"
)

// NormalizeURI collapses "." and ".." path segments. A
// "scheme://host" prefix is preserved verbatim: the authority is not
// an ordinary path segment and is never consumed by "..".
func NormalizeURI(uri string) string {
	prefix := ""
	rest := uri
	if i := strings.Index(uri, "://"); i >= 0 {
		prefix = uri[:i+3]
		rest = uri[i+3:]
		j := strings.Index(rest, "/")
		if j < 0 {
			return uri
		}
		prefix += rest[:j]
		rest = rest[j:]
	}

	absolute := strings.HasPrefix(rest, "/")
	var out []string
	for _, seg := range strings.Split(rest, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !absolute {
				out = append(out, seg)
			}
		default:
			out = append(out, seg)
		}
	}

	r := strings.Join(out, "/")
	if absolute {
		r = "/" + r
	}
	return prefix + r
}
