package cache

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pkg/fileutils"
	log "github.com/sirupsen/logrus"
)

// Save stores buf as the entry for key in category cat.
func (c *Cache) Save(key string, cat Category, buf []byte) error {
	return c.SaveReader(key, cat, bytes.NewReader(buf))
}

// SaveFile stores the contents of the file src as the entry for key in
// category cat.
func (c *Cache) SaveFile(key string, cat Category, src string) (err error) {
	// resolve the key first so a bad key is reported as such
	path, err := c.Path(key, cat)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	fh, err := os.Open(src)
	if err != nil {
		log.Warnf("could not read file src %s to insert to cache", src)
		return &WriteError{Key: key, Path: path.Abs, Err: errors.Wrap(err, "read input")}
	}
	defer fh.Close()
	return c.save(path, fh)
}

// SaveReader stores everything read from rd as the entry for key in
// category cat.  The payload must not be empty.  If the entry is
// already present, c.Overwrite decides what happens.
func (c *Cache) SaveReader(key string, cat Category, rd io.Reader) (err error) {
	path, err := c.Path(key, cat)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return c.save(path, rd)
}

func (c *Cache) save(path *Path, rd io.Reader) (err error) {
	ok, err := c.admit(path)
	if err != nil || !ok {
		return
	}
	dir := filepath.Dir(path.Abs)
	log.Debugf("writing to cache in dir %s", dir)
	err = mkdir(dir)
	if err != nil {
		return &WriteError{Key: path.Key, Path: path.Abs, Err: err}
	}
	_, err = writeFile(path.Abs, c.perm(), rd)
	if err != nil {
		return &WriteError{Key: path.Key, Path: path.Abs, Err: err}
	}
	c.metrics().IncWrite(path.Category)
	return nil
}

// admit applies the overwrite policy.  It reports whether the write
// should go ahead.
func (c *Cache) admit(path *Path) (ok bool, err error) {
	state, _ := stat(path.Abs)
	if state != present {
		return true, nil
	}
	switch c.Overwrite {
	case Skip:
		log.Debugf("keeping existing entry %s", path.Rel)
		return false, nil
	case Fail:
		return false, &OverwriteError{Key: path.Key, Id: path.Id}
	}
	return true, nil
}

// SaveBlank marks the entry for key in category cat as being produced
// by leaving a zero-length file at its path.  A present entry is
// truncated, subject to c.Overwrite.
func (c *Cache) SaveBlank(key string, cat Category) (err error) {
	path, err := c.Path(key, cat)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	ok, err := c.admit(path)
	if err != nil || !ok {
		return
	}
	log.Debugf("saving blank file in %s", path.Abs)
	err = mkdir(filepath.Dir(path.Abs))
	if err != nil {
		return &WriteError{Key: key, Path: path.Abs, Err: err}
	}
	_, err = writeFile(path.Abs, c.perm(), nil)
	if err != nil {
		return &WriteError{Key: key, Path: path.Abs, Err: err}
	}
	c.metrics().IncBlank(cat)
	return nil
}

// Reserve is SaveBlank that only succeeds for one caller: it creates
// the blank entry if and only if no entry exists, and reports whether
// it did.  A false return means some other worker got there first.
func (c *Cache) Reserve(key string, cat Category) (reserved bool, err error) {
	path, err := c.Path(key, cat)
	if err != nil {
		return false, &WriteError{Key: key, Err: err}
	}
	err = mkdir(filepath.Dir(path.Abs))
	if err != nil {
		return false, &WriteError{Key: key, Path: path.Abs, Err: err}
	}
	reserved, err = createExcl(path.Abs, c.perm())
	if err != nil {
		return reserved, &WriteError{Key: key, Path: path.Abs, Err: err}
	}
	if reserved {
		log.Debugf("reserved %s", path.Rel)
		c.metrics().IncBlank(cat)
	}
	return
}

// IsBlank reports whether the entry exists and is blank.
func (c *Cache) IsBlank(key string, cat Category) bool {
	path, err := c.Path(key, cat)
	if err != nil {
		return false
	}
	state, _ := stat(path.Abs)
	return state == blank
}

// Exists reports whether there is an entry, blank or not.
func (c *Cache) Exists(key string, cat Category) bool {
	path, err := c.Path(key, cat)
	if err != nil {
		return false
	}
	state, _ := stat(path.Abs)
	return state != absent
}

// lookup resolves a key that is expected to name a present entry.
func (c *Cache) lookup(key string, cat Category) (path *Path, err error) {
	path, err = c.Path(key, cat)
	if err != nil {
		return nil, &MissError{Key: key, Err: err}
	}
	switch state, _ := stat(path.Abs); state {
	case absent:
		err = &MissError{Key: key, Id: path.Id, Err: os.ErrNotExist}
	case blank:
		err = &MissError{Key: key, Id: path.Id, Err: ErrBlank}
	}
	if err != nil {
		c.metrics().IncMiss(cat)
		return nil, err
	}
	return
}

// Retrieve returns the payload stored for key in category cat.
func (c *Cache) Retrieve(key string, cat Category) (buf []byte, err error) {
	path, err := c.lookup(key, cat)
	if err != nil {
		return
	}
	buf, err = ioutil.ReadFile(path.Abs)
	if err != nil {
		log.Warnf("could not retrieve file from cache: %v", err)
		c.metrics().IncMiss(cat)
		return nil, &MissError{Key: key, Id: path.Id, Err: err}
	}
	c.metrics().IncHit(cat)
	return
}

// RetrieveTo copies the payload stored for key in category cat to the
// file dest.
func (c *Cache) RetrieveTo(key string, cat Category, dest string) (err error) {
	path, err := c.lookup(key, cat)
	if err != nil {
		return
	}
	err = fileutils.CopyFile(dest, path.Abs)
	if err != nil {
		log.Warnf("could not retrieve file from cache: %v", err)
		c.metrics().IncMiss(cat)
		return &MissError{Key: key, Id: path.Id, Err: err}
	}
	c.metrics().IncHit(cat)
	return
}

// Delete removes the entry for key in category cat.  Deleting an
// absent entry is not an error.
func (c *Cache) Delete(key string, cat Category) (err error) {
	path, err := c.Path(key, cat)
	if err != nil {
		// no such key can have been stored
		return nil
	}
	if state, _ := stat(path.Abs); state == absent {
		return nil
	}
	err = os.Remove(path.Abs)
	if err != nil && !os.IsNotExist(err) {
		return &WriteError{Key: key, Path: path.Abs, Err: err}
	}
	log.Debugf("deleted %s", path.Rel)
	return nil
}
