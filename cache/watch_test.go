package cache

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/stevegt/goadapt"
)

func TestWaitReadyPresent(t *testing.T) {
	c := setup(t, nil)
	err := c.Save("somekey", Partial, mkbuf("somevalue"))
	Ck(err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := c.WaitReady(ctx, "somekey", Partial)
	tassert(t, err == nil, "%v", err)
	tassert(t, string(got) == "somevalue", "got %q", got)
}

func TestWaitReadyBlank(t *testing.T) {
	c := setup(t, nil)
	ok, err := c.Reserve("somekey", Partial)
	Ck(err)
	Assert(ok)

	go func() {
		time.Sleep(100 * time.Millisecond)
		err := c.Save("somekey", Partial, mkbuf("somevalue"))
		if err != nil {
			t.Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := c.WaitReady(ctx, "somekey", Partial)
	tassert(t, err == nil, "%v", err)
	tassert(t, string(got) == "somevalue", "got %q", got)
}

func TestWaitReadyAbsent(t *testing.T) {
	c := setup(t, nil)
	go func() {
		time.Sleep(100 * time.Millisecond)
		err := c.Save(somevalueHex, Complete, mkbuf("somevalue"))
		if err != nil {
			t.Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := c.WaitReady(ctx, somevalueHex, Complete)
	tassert(t, err == nil, "%v", err)
	tassert(t, string(got) == "somevalue", "got %q", got)
}

func TestWaitReadyAbandoned(t *testing.T) {
	c := setup(t, nil)
	err := c.SaveBlank("somekey", Diff)
	Ck(err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		err := c.Delete("somekey", Diff)
		if err != nil {
			t.Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = c.WaitReady(ctx, "somekey", Diff)
	tassert(t, IsMiss(err), "expected MissError, got %#v", err)
	tassert(t, errors.Is(err, os.ErrNotExist), "expected ErrNotExist, got %v", err)
}

func TestWaitReadyCancel(t *testing.T) {
	c := setup(t, nil)
	err := c.SaveBlank("somekey", Diff)
	Ck(err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = c.WaitReady(ctx, "somekey", Diff)
	tassert(t, errors.Is(err, context.DeadlineExceeded), "expected deadline, got %v", err)
}

func TestWaitReadyBadKey(t *testing.T) {
	c := setup(t, nil)
	_, err := c.WaitReady(context.Background(), "", Diff)
	tassert(t, errors.Is(err, ErrBadKey), "expected ErrBadKey, got %v", err)
}

func TestWaitReadyNotDir(t *testing.T) {
	c := setup(t, nil)
	// the first shard level of "somekey" is taken by a file
	err := ioutil.WriteFile(filepath.Join(c.CategoryDir(Diff), "s"), mkbuf("x"), 0644)
	Ck(err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = c.WaitReady(ctx, "somekey", Diff)
	var me *MissError
	tassert(t, errors.As(err, &me), "expected MissError, got %#v", err)
	tassert(t, me.Key == "somekey" && me.Id == "somekey", "%#v", me)
}
