// Package archive stores copies of form attachments.
//
// Archiving is best effort: the API logs a failed Put and still sends the
// notification email, which carries the attachments itself.
package archive

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("archive: invalid key")

// Store persists archived objects.
type Store interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// Key builds the object key form/yyyy/mm/dd/id/filename.
func Key(form, id, filename string, at time.Time) string {
	at = at.UTC()
	return path.Join(
		sanitize(form),
		at.Format("2006"), at.Format("01"), at.Format("02"),
		sanitize(id),
		sanitize(filename),
	)
}

// sanitize keeps a single path element made of safe characters.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, s)
	s = strings.Trim(s, ".")
	if s == "" {
		return "_"
	}
	return s
}

// validKey rejects absolute keys and dot segments.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") || strings.IndexByte(key, 0) != -1 {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
