package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Category partitions the cache namespace.  Each category has its own
// subdirectory under the cache root, except None, which stores entries
// directly under the root.
type Category int

const (
	None Category = iota
	Complete
	Diff
	Partial
)

// Categories lists every category with its own subdirectory.
var Categories = []Category{Complete, Diff, Partial}

// dir returns the category's subdirectory name relative to the root.
func (cat Category) dir() string {
	switch cat {
	case Complete:
		return "complete"
	case Diff:
		return "diff"
	case Partial:
		return "partial"
	}
	return ""
}

func (cat Category) String() string {
	if cat == None {
		return "none"
	}
	return cat.dir()
}

// ParseCategory is the inverse of Category.String.  The empty string
// means None.
func ParseCategory(s string) (cat Category, err error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "complete":
		return Complete, nil
	case "diff":
		return Diff, nil
	case "partial":
		return Partial, nil
	}
	return None, fmt.Errorf("unknown category: %q", s)
}

// Policy says what Save does when the entry it targets is already
// present.  Blank entries are always overwritten regardless of policy.
type Policy int

const (
	// Replace atomically swaps in the new payload; the last writer wins.
	Replace Policy = iota
	// Skip keeps the existing entry and reports success.
	Skip
	// Fail keeps the existing entry and returns an *OverwriteError.
	Fail
)

func (p Policy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Fail:
		return "fail"
	}
	return "replace"
}

// ParsePolicy is the inverse of Policy.String.  The empty string means
// Replace.
func ParsePolicy(s string) (p Policy, err error) {
	switch strings.ToLower(s) {
	case "", "replace":
		return Replace, nil
	case "skip":
		return Skip, nil
	case "fail":
		return Fail, nil
	}
	return Replace, fmt.Errorf("unknown overwrite policy: %q", s)
}

// Cache is a handle on one cache root.  Set the exported fields and
// call Open, or call the package-level Open for the defaults.  A Cache
// holds no state beyond its configuration, so one handle can be shared
// by any number of goroutines, and any number of processes can share
// the same root.
type Cache struct {
	Dir       string      // cache root
	Perm      os.FileMode // permission bits of entry files
	Overwrite Policy      // what Save does to a present entry
	Metrics   Metrics     // optional; nil disables metrics
}

// Open initializes the cache rooted at dir with default settings.
func Open(dir string) (*Cache, error) {
	return Cache{Dir: dir}.Open()
}

// Open creates the cache root and its category subdirectories if
// they're missing and returns the ready handle.  Zero Perm and nil
// Metrics mean the defaults.
// Opening an existing cache is harmless.
func (c Cache) Open() (out *Cache, err error) {
	if c.Dir == "" {
		return nil, &InitError{Dir: c.Dir, Err: errors.New("no cache dir given")}
	}
	c.Dir = filepath.Clean(c.Dir)

	log.Debugf("creating cache interface for cache %s", c.Dir)
	dirs := []string{c.Dir}
	for _, cat := range Categories {
		dirs = append(dirs, filepath.Join(c.Dir, cat.dir()))
	}
	for _, dir := range dirs {
		err = mkdir(dir)
		if err != nil {
			log.Warnf("could not create required dir %s: %v", dir, err)
			return nil, &InitError{Dir: dir, Err: err}
		}
	}
	return &c, nil
}

// CategoryDir returns the absolute directory holding cat's entries.
func (c *Cache) CategoryDir(cat Category) string {
	return filepath.Join(c.Dir, cat.dir())
}

// perm returns the permission bits for new entry files, 0644 unless
// Perm is set.
func (c *Cache) perm() os.FileMode {
	if c.Perm == 0 {
		return 0644
	}
	return c.Perm
}

func (c *Cache) metrics() Metrics {
	if c.Metrics == nil {
		return nopMetrics{}
	}
	return c.Metrics
}

// mkdir creates dir and any missing parents.  It fails if dir or a
// parent exists but is not a directory.
func mkdir(dir string) (err error) {
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return
	}
	info, err := os.Stat(dir)
	if err != nil {
		return
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return
}
