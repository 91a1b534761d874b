package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/loopcontext/msgsync"
	"github.com/loopcontext/msgsync/internal/config"
	"github.com/loopcontext/msgsync/internal/logger"
)

// exitFatal is used for usage errors and unreadable source files.
const exitFatal = 2

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, `msgsync - reconcile translation calls in source code with a string catalog

usage: msgsync [options] CATALOG SRC_PATTERN...

Scans the source files for _t(), _td() and _tJsx() calls with a literal first
argument and compares the keys with CATALOG (JSON, or YAML by extension). Keys
of the form "phrase|category" are plural variants of "phrase".

Exit status: 0 when nothing changed or the catalog was updated, 1 when
changes are needed but were not applied or the catalog cannot be read,
2 on usage errors or unreadable source files.

Examples:
  msgsync src/i18n/strings/en_EN.json 'src/**/*.js'
  msgsync --auto-add --auto-remove src/i18n/strings/en_EN.json 'src/**/*.js'

Flags:
`)
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
}

func run(args []string, fsys afero.Fs, stdout, stderr io.Writer) int {
	flags := config.NewFlagSet("msgsync")
	flags.Usage = usage(stderr, flags)
	flags.SetOutput(io.Discard)

	cfg, err := config.Load(flags, args)
	if err != nil {
		// pflag has already printed the usage text for -h/--help.
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		if errors.Is(err, config.ErrUsage) {
			flags.Usage()
		}
		return exitFatal
	}

	log, err := logger.New(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		return exitFatal
	}
	defer func() { _ = log.Sync() }()

	paths, err := msgsync.ExpandPatterns(fsys, cfg.Sources, log)
	if err != nil {
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		return exitFatal
	}
	log.Debug("expanded sources", zap.Int("files", len(paths)))

	store := msgsync.NewFileStore(fsys, cfg.CatalogPath)
	rec := msgsync.NewReconciler(store, stdout, cfg.Options(), msgsync.WithReconcilerLogger(log))
	catalog, err := rec.Load()
	if err != nil {
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		return 1
	}

	ext := msgsync.NewExtractor(fsys,
		msgsync.WithCallNames(cfg.CallNames...),
		msgsync.WithExtractorLogger(log),
	)
	found, err := ext.ExtractFiles(paths)
	if err != nil {
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		return exitFatal
	}

	res, err := rec.Apply(catalog, found)
	if err != nil {
		fmt.Fprintf(stderr, "msgsync: %v\n", err)
		return 1
	}
	log.Debug("reconciled", zap.Stringer("status", res.Status))
	return res.Status.ExitCode()
}
