// seehuhn.de/go/dieline - register and clip artwork to die-line masks
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Maskpat places pattern artwork onto die-line masks.
//
// Usage:
//
//	maskpat run [options] mask pattern...
//	maskpat inspect file...
//	maskpat serve [options]
//	maskpat history [options]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/config"
	"seehuhn.de/go/dieline/internal/buildinfo"
	"seehuhn.de/go/dieline/internal/profile"
	"seehuhn.de/go/dieline/journal"
	"seehuhn.de/go/dieline/memhost"
	"seehuhn.de/go/dieline/pipeline"
	"seehuhn.de/go/dieline/runlog"
	"seehuhn.de/go/dieline/server"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s run|inspect|serve|history|version [options] [args]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Use \"maskpat <command> -h\" for the options of a command.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "run":
		err = runCmd(args)
	case "inspect":
		err = inspectCmd(args)
	case "serve":
		err = serveCmd(args)
	case "history":
		err = historyCmd(args)
	case "version":
		fmt.Println(buildinfo.Creator("maskpat"))
		return
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// common holds the flags shared by run and serve.
type common struct {
	configFile *string
	outDir     *string
	journal    *string
	strategy   *string
	verbose    *bool
	cpuProfile *string
	memProfile *string
}

func addCommon(fs *flag.FlagSet) *common {
	return &common{
		configFile: fs.String("config", "", "configuration file (YAML)"),
		outDir:     fs.String("out", "", "output directory (overrides the config file)"),
		journal:    fs.String("journal", "", "run journal database (overrides the config file)"),
		strategy:   fs.String("strategy", "", "clip strategy: hybrid, compound, largest or boolean"),
		verbose:    fs.Bool("v", false, "log debug messages"),
		cpuProfile: fs.String("cpuprofile", "", "write CPU profile to `file`"),
		memProfile: fs.String("memprofile", "", "write memory profile to `file`"),
	}
}

// setup loads the configuration, applies command line overrides, opens
// the run log and journal and starts profiling.  The returned function
// releases everything.
func (c *common) setup() (*config.Config, pipeline.Options, *journal.Journal, func(), error) {
	cfg := config.Default()
	if *c.configFile != "" {
		var err error
		cfg, err = config.Load(*c.configFile)
		if err != nil {
			return nil, pipeline.Options{}, nil, nil, err
		}
	}
	if *c.outDir != "" {
		cfg.OutputDir = *c.outDir
	}
	if *c.journal != "" {
		cfg.Journal = *c.journal
	}
	if *c.strategy != "" {
		cfg.Clip.Strategy = *c.strategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, pipeline.Options{}, nil, nil, err
	}

	level := slog.LevelInfo
	if *c.verbose {
		level = slog.LevelDebug
	}
	log, err := runlog.Open(cfg.LogFile, os.Stderr, level)
	if err != nil {
		return nil, pipeline.Options{}, nil, nil, err
	}
	dieline.SetLogger(log.Logger)

	opt := cfg.Options()
	opt.Logger = log.Logger
	opt.Creator = buildinfo.Creator("maskpat")

	var j *journal.Journal
	if cfg.Journal != "" {
		j, err = journal.Open(cfg.Journal)
		if err != nil {
			log.Close()
			return nil, pipeline.Options{}, nil, nil, err
		}
		opt.Journal = j
	}

	stopProfile, err := profile.Start(*c.cpuProfile, *c.memProfile)
	if err != nil {
		if j != nil {
			j.Close()
		}
		log.Close()
		return nil, pipeline.Options{}, nil, nil, err
	}

	release := func() {
		if err := stopProfile(); err != nil {
			log.Error("profiling failed", "error", err)
		}
		if j != nil {
			j.Close()
		}
		log.Close()
	}
	return cfg, opt, j, release, nil
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c := addCommon(fs)
	preserve := fs.Bool("preserve-strokes", false, "keep the outline of stroked reference paths")
	var explicit []pipeline.PatternFile
	fs.Func("p", "pattern file as `TAG=PATH` (repeatable)", func(s string) error {
		tag, path, ok := strings.Cut(s, "=")
		if !ok || tag == "" || path == "" {
			return errors.New("expected TAG=PATH")
		}
		explicit = append(explicit, pipeline.PatternFile{Path: path, Tag: tag})
		return nil
	})
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: maskpat run [options] mask [pattern...]")
		fmt.Fprintln(fs.Output(), "Patterns given as arguments receive the tags from the configuration,")
		fmt.Fprintln(fs.Output(), "by default PatCol and PatBlk.")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	cfg, opt, _, release, err := c.setup()
	if err != nil {
		return err
	}
	defer release()
	if *preserve {
		opt.Clip.PreserveStrokes = true
	}

	batch := pipeline.Batch{Mask: fs.Arg(0)}
	positional := fs.Args()[1:]
	if len(positional) > len(cfg.Patterns) {
		return fmt.Errorf("%d patterns given, but only %d tags configured",
			len(positional), len(cfg.Patterns))
	}
	for i, path := range positional {
		batch.Patterns = append(batch.Patterns, pipeline.PatternFile{Path: path, Tag: cfg.Patterns[i]})
	}
	batch.Patterns = append(batch.Patterns, explicit...)
	if len(batch.Patterns) == 0 {
		return errors.New("no pattern files given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := pipeline.New(memhost.New(), opt).RunBatch(ctx, batch)
	for _, out := range rep.Outputs {
		fmt.Println(out)
	}
	if rep.Err != nil {
		if len(rep.Skipped) > 0 {
			fmt.Fprintf(os.Stderr, "skipped: %s\n", strings.Join(rep.Skipped, ", "))
		}
		return rep.Err
	}
	return nil
}

func inspectCmd(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: maskpat inspect file...")
		fmt.Fprintln(fs.Output(), "Prints the layers and shapes of the given documents.")
	}
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	for i, name := range fs.Args() {
		doc, err := memhost.ReadFile(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Println()
		}
		if err := artwork.Fprint(os.Stdout, doc); err != nil {
			return err
		}
	}
	return nil
}

func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	c := addCommon(fs)
	listen := fs.String("listen", "", "address to listen on (overrides the config file)")
	inputDir := fs.String("input", "", "directory for the file names in requests (overrides the config file)")
	fs.Parse(args)

	cfg, opt, j, release, err := c.setup()
	if err != nil {
		return err
	}
	defer release()
	addr := cfg.Listen
	if *listen != "" {
		addr = *listen
	}
	if *inputDir != "" {
		cfg.InputDir = *inputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(memhost.New(), opt, j, cfg.InputDir)
	return srv.ListenAndServe(ctx, addr)
}

func historyCmd(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file (YAML)")
	dbFile := fs.String("journal", "", "run journal database (overrides the config file)")
	limit := fs.Int("n", 20, "number of runs to show")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	fs.Parse(args)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return err
		}
	}
	if *dbFile != "" {
		cfg.Journal = *dbFile
	}
	if cfg.Journal == "" {
		return errors.New("no run journal configured")
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), *limit)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tMASK\tTAG\tSTRATEGY\tRESULT")
	for _, e := range entries {
		result := e.Output
		if !e.OK() {
			result = fmt.Sprintf("failed (%s): %s", e.Stage, e.Error)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Started.Format("2006-01-02 15:04:05"), e.Mask, e.Tag, e.Strategy, result)
	}
	return tw.Flush()
}
