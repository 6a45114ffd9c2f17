package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
	"github.com/t7a/diffcache/cache"
	"github.com/t7a/diffcache/csum"
)

func init() {
	var debug string
	debug = os.Getenv("DEBUG")
	if debug == "1" {
		log.SetLevel(log.DebugLevel)
	}
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns string presentation of log caller which is formatted as
// `/path/to/file.go:line_number`. e.g. `/internal/app/api.go:25`
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d", strings.TrimPrefix(f.File, p), f.Line)
	}
}

// exit codes
const (
	rcOk       = 0
	rcFalse    = 1
	rcUsage    = 22
	rcFail     = 42
	rcMiss     = 44
	rcBadWrite = 25
)

type Opts struct {
	Init     bool
	Put      bool
	Blank    bool
	Reserve  bool
	Get      bool
	Exists   bool
	Isblank  bool
	Rm       bool
	Path     bool
	Digest   bool
	Category string
	From     string
	Out      string
	Key      string
	Files    []string
}

// command reports whether the arguments named a subcommand.
func (opts Opts) command() bool {
	return opts.Init || opts.Put || opts.Blank || opts.Reserve || opts.Get ||
		opts.Exists || opts.Isblank || opts.Rm || opts.Path || opts.Digest
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {

	usage := `diffcache

Usage:
  dc init
  dc put [-c <category>] [-f <src>] <key>
  dc blank [-c <category>] <key>
  dc reserve [-c <category>] <key>
  dc get [-c <category>] [-o <dest>] <key>
  dc exists [-c <category>] <key>
  dc isblank [-c <category>] <key>
  dc rm [-c <category>] <key>
  dc path [-c <category>] <key>
  dc digest <files>...

Options:
  -c <category>, --category <category>  complete, diff, partial, or none [default: none]
  -f <src>, --from <src>                read the payload from src instead of stdin
  -o <dest>, --out <dest>               write the payload to dest instead of stdout
  -h --help                             Show this screen.
  --version                             Show version.

Environment:
  CACHEDIR         cache root (default: current directory)
  CACHE_OVERWRITE  replace, skip, or fail when putting a present entry
  DEBUG            set to 1 for debug logging
`
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpOnly, OptionsFirst: false}
	o, err := parser.ParseArgs(usage, os.Args[1:], "0.0")
	if err != nil {
		return rcUsage
	}
	if len(o) == 0 {
		// --help or --version, already printed
		return rcOk
	}
	var opts Opts
	err = o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return rcUsage
	}
	log.Debug(opts)
	if !opts.command() {
		return rcOk
	}

	cat, err := cache.ParseCategory(opts.Category)
	if err != nil {
		log.Error(err)
		return rcUsage
	}

	if opts.Digest {
		key, err := digest(opts.Files)
		if err != nil {
			log.Error(err)
			return rcFail
		}
		fmt.Println(key)
		return rcOk
	}

	c, err := opencache()
	if err != nil {
		log.Error(err)
		return rcFail
	}

	switch true {
	case opts.Init:
		fmt.Println("initialized cache")
	case opts.Put:
		if opts.From != "" {
			err = c.SaveFile(opts.Key, cat, opts.From)
		} else {
			err = c.SaveReader(opts.Key, cat, os.Stdin)
		}
		if err != nil {
			log.Error(err)
			return rcBadWrite
		}
	case opts.Blank:
		err = c.SaveBlank(opts.Key, cat)
		if err != nil {
			log.Error(err)
			return rcBadWrite
		}
	case opts.Reserve:
		ok, err := c.Reserve(opts.Key, cat)
		if err != nil {
			log.Error(err)
			return rcBadWrite
		}
		fmt.Println(ok)
		if !ok {
			return rcFalse
		}
	case opts.Get:
		if opts.Out != "" {
			err = c.RetrieveTo(opts.Key, cat, opts.Out)
		} else {
			err = get(c, opts.Key, cat, os.Stdout)
		}
		if cache.IsMiss(err) {
			log.Error(err)
			return rcMiss
		}
		if err != nil {
			log.Error(err)
			return rcFail
		}
	case opts.Exists:
		return predicate(c.Exists(opts.Key, cat))
	case opts.Isblank:
		return predicate(c.IsBlank(opts.Key, cat))
	case opts.Rm:
		err = c.Delete(opts.Key, cat)
		if err != nil {
			log.Error(err)
			return rcFail
		}
	case opts.Path:
		path, err := c.Path(opts.Key, cat)
		if err != nil {
			log.Error(err)
			return rcFail
		}
		fmt.Println(path.Rel)
	}
	return rcOk
}

func predicate(ok bool) int {
	fmt.Println(ok)
	if ok {
		return rcOk
	}
	return rcFalse
}

func cachedir() (dir string, err error) {
	dir = os.Getenv("CACHEDIR")
	if dir == "" {
		dir, err = os.Getwd()
	}
	return
}

func opencache() (c *cache.Cache, err error) {
	defer Return(&err)
	dir, err := cachedir()
	Ck(err)
	policy, err := cache.ParsePolicy(os.Getenv("CACHE_OVERWRITE"))
	Ck(err)
	c, err = cache.Cache{Dir: dir, Overwrite: policy}.Open()
	Ck(err)
	return
}

func get(c *cache.Cache, key string, cat cache.Category, wr io.Writer) (err error) {
	buf, err := c.Retrieve(key, cat)
	if err != nil {
		return
	}
	_, err = wr.Write(buf)
	return
}

// digest returns the composite key naming a diff between files: the
// hex SHA-512 of each, joined with "-".
func digest(fns []string) (key string, err error) {
	defer Return(&err)
	var sums []string
	for _, fn := range fns {
		sum, err := csum.Sha512HexFile(fn)
		Ck(err)
		sums = append(sums, sum)
	}
	return strings.Join(sums, "-"), nil
}
