package main

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmdtest"
	"github.com/pkg/fileutils"
)

var update = flag.Bool("update", false, "update test files with results")

func TestCLI(t *testing.T) {
	ts, err := cmdtest.Read("testdata")
	if err != nil {
		t.Fatal(err)
	}
	ts.KeepRootDirs = true
	srcdir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	ts.Setup = func(dir string) error {
		return fileutils.CopyFile(
			filepath.Join(dir, "payload.txt"),
			filepath.Join(srcdir, "testdata", "payload.txt"))
	}
	ts.Commands["dc"] = cmdtest.InProcessProgram("dc", run)
	ts.Run(t, *update)
}

// Asking for help or the version must not create a cache.
func TestHelpLeavesDirAlone(t *testing.T) {
	args := os.Args
	defer func() { os.Args = args }()
	for _, arg := range []string{"--help", "-h", "--version"} {
		dir := t.TempDir()
		t.Setenv("CACHEDIR", dir)
		os.Args = []string{"dc", arg}
		rc := run()
		if rc != rcOk {
			t.Errorf("%s: rc %d", arg, rc)
		}
		files, err := ioutil.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range files {
			t.Errorf("%s: created %s", arg, f.Name())
		}
	}
}
