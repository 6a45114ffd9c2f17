package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// WaitReady blocks until the entry for key in category cat is present
// and returns its payload.  An absent entry is waited for as well.  If
// the entry was seen blank and then disappears, the producer gave up,
// and WaitReady returns a *MissError.
func (c *Cache) WaitReady(ctx context.Context, key string, cat Category) (buf []byte, err error) {
	path, err := c.Path(key, cat)
	if err != nil {
		return nil, &MissError{Key: key, Err: err}
	}

	// the shard dir has to exist before we can watch it
	miss := func(err error) error {
		return &MissError{Key: key, Id: path.Id, Err: err}
	}
	dir := filepath.Dir(path.Abs)
	err = mkdir(dir)
	if err != nil {
		return nil, miss(err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, miss(errors.Wrap(err, "create watcher"))
	}
	defer watcher.Close()
	err = watcher.Add(dir)
	if err != nil {
		return nil, miss(errors.Wrapf(err, "watch %s", dir))
	}

	// state is checked after Add so that no change can slip between
	// the check and the first event
	var reserved bool
	for {
		state, _ := stat(path.Abs)
		switch state {
		case present:
			buf, err = c.Retrieve(key, cat)
			if err == nil || !IsMiss(err) {
				return
			}
			// removed again before we could read it
		case blank:
			reserved = true
		case absent:
			if reserved {
				log.Debugf("blank entry %s went away", path.Rel)
				return nil, miss(os.ErrNotExist)
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil, miss(errors.New("watcher closed"))
			}
			log.Debugf("watch event %v", event)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil, miss(errors.New("watcher closed"))
			}
			return nil, miss(errors.Wrapf(werr, "watch %s", dir))
		}
	}
}
