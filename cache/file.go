package cache

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// entry states
const (
	absent = iota
	blank
	present
)

// stat returns the state of the entry at abspath and its size.
func stat(abspath string) (state int, size int64) {
	info, err := os.Stat(abspath)
	if err != nil || !info.Mode().IsRegular() {
		return absent, 0
	}
	if info.Size() == 0 {
		return blank, 0
	}
	return present, info.Size()
}

// writeFile copies rd into a temporary file in abspath's directory and
// renames it over abspath.  With rd nil it installs a blank entry.
// Otherwise at least one byte must be copied.  The temporary file never
// outlives the call.
func writeFile(abspath string, perm os.FileMode, rd io.Reader) (n int64, err error) {
	pf, err := renameio.TempFile(filepath.Dir(abspath), abspath)
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	tmpname := pf.Name()
	defer func() {
		// no-op once the rename has happened
		cerr := pf.Cleanup()
		if cerr != nil {
			log.Warnf("could not remove temp file %s: %v", tmpname, cerr)
		}
	}()

	if rd != nil {
		n, err = io.Copy(pf, rd)
		if err != nil {
			return n, errors.Wrapf(err, "write %s", tmpname)
		}
		if n == 0 {
			return 0, ErrEmptyPayload
		}
	}
	err = pf.Chmod(perm)
	if err != nil {
		return n, errors.Wrapf(err, "chmod %s", tmpname)
	}
	err = pf.CloseAtomicallyReplace()
	if err != nil {
		return n, errors.Wrapf(err, "rename %s to %s", tmpname, abspath)
	}
	log.Debugf("wrote %d bytes to %s", n, abspath)
	return n, nil
}

// createExcl creates a blank entry at abspath only if nothing is there.
func createExcl(abspath string, perm os.FileMode) (created bool, err error) {
	fh, err := os.OpenFile(abspath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = fh.Close()
	if err != nil {
		return true, err
	}
	return true, nil
}
