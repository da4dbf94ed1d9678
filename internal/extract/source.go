package extract

import "strings"

type sourceKind int

const (
	sourcePath sourceKind = iota
	sourceURL
	sourceBytes
)

// Source is a tagged variant over the three ways document bytes can arrive:
// an object-store path, a remote URL, or an in-memory buffer.
type Source struct {
	kind sourceKind
	path string
	url  string
	data []byte
}

// FromPath builds a Source reading through the object store.
func FromPath(path string) Source {
	return Source{kind: sourcePath, path: path}
}

// FromURL builds a Source fetched over HTTP.
func FromURL(url string) Source {
	return Source{kind: sourceURL, url: url}
}

// FromBytes builds a Source over an in-memory payload.
func FromBytes(data []byte) Source {
	return Source{kind: sourceBytes, data: data}
}

// FromLocator routes a storage locator: an http(s) URL fetches remotely,
// anything else reads through the object store.
func FromLocator(locator string) Source {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return FromURL(locator)
	}
	return FromPath(locator)
}
