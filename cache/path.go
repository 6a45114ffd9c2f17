package cache

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/t7a/diffcache/csum"
)

const (
	// Depth is the number of single-character shard directories above
	// each entry.
	Depth = 5
	// pad stands in for missing shard levels and an empty file name
	// when an identifier is shorter than Depth+1 characters.  It can't
	// occur in an identifier since keys containing it are rejected and
	// the compact digest alphabet doesn't include it.
	pad = "="
)

// Path locates one entry.
type Path struct {
	Key      string
	Category Category
	Id       string // identifier
	Rel      string // relative to the cache root, including the category dir
	Abs      string // absolute
}

// Path resolves key in category cat to its location on disk.  It does
// no I/O.
func (c *Cache) Path(key string, cat Category) (path *Path, err error) {
	id, err := Identifier(key)
	if err != nil {
		return
	}
	err = checkShard(id)
	if err != nil {
		return nil, errors.Wrapf(err, "key %q", key)
	}
	path = &Path{Key: key, Category: cat, Id: id}
	path.Rel = filepath.Join(cat.dir(), Shard(id))
	path.Abs = filepath.Join(c.Dir, path.Rel)
	return
}

// Identifier converts a key to its on-disk form: every 128-character
// segment is taken to be a hex SHA-512 and compacted, the other
// segments are kept as is.
//
// Keys must be valid UTF-8, since each shard level is one character.
// Keys containing '/', NUL, '=' or a backslash are rejected with
// ErrBadKey.  A backslash is a legal file name byte on POSIX but a
// separator on Windows, and a key must name the same path on every
// host sharing the cache.
func Identifier(key string) (id string, err error) {
	if key == "" {
		return "", errors.Wrap(ErrBadKey, "empty key")
	}
	if !utf8.ValidString(key) {
		return "", errors.Wrapf(ErrBadKey, "key %q is not valid UTF-8", key)
	}
	if strings.ContainsAny(key, "/\\\x00"+pad) {
		return "", errors.Wrapf(ErrBadKey, "key %q contains a reserved character", key)
	}
	segs := strings.Split(key, "-")
	for i, seg := range segs {
		if len(seg) != csum.HexLen {
			continue
		}
		segs[i], err = csum.HexTo64(seg)
		if err != nil {
			return "", errors.Wrapf(ErrBadKey, "key %q: %v", key, err)
		}
	}
	return strings.Join(segs, "-"), nil
}

// Shard returns the relative path of identifier id below its category
// dir: the first Depth characters become one directory level each and
// the remainder becomes the file name.  Short identifiers are padded,
// so "ab" becomes a/b/=/=/=/=.
func Shard(id string) string {
	chars := []rune(id)
	parts := make([]string, 0, Depth+1)
	for i := 0; i < Depth; i++ {
		if i < len(chars) {
			parts = append(parts, string(chars[i]))
		} else {
			parts = append(parts, pad)
		}
	}
	if len(chars) > Depth {
		parts = append(parts, string(chars[Depth:]))
	} else {
		parts = append(parts, pad)
	}
	return filepath.Join(parts...)
}

// checkShard rejects identifiers whose shard path would be collapsed
// by path cleaning.
func checkShard(id string) error {
	chars := []rune(id)
	for i := 0; i < Depth && i < len(chars); i++ {
		if chars[i] == '.' {
			return errors.Wrapf(ErrBadKey, "identifier %q has a '.' shard", id)
		}
	}
	if len(chars) > Depth {
		rest := string(chars[Depth:])
		if rest == "." || rest == ".." {
			return errors.Wrapf(ErrBadKey, "identifier %q has file name %q", id, rest)
		}
	}
	return nil
}
