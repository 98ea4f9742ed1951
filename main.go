/*
collmesh exports the meshes referenced from a scene group into a collmesh
binary, and inspects such files.

	collmesh export [flags] <scene>[:group] [pattern] <out.collmesh>
	collmesh inspect <file.collmesh>
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/collmesh/engine"
	"github.com/spaghettifunk/collmesh/engine/assets"
	"github.com/spaghettifunk/collmesh/engine/collmesh"
	"github.com/spaghettifunk/collmesh/engine/config"
	"github.com/spaghettifunk/collmesh/engine/core"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s export [flags] <scene>[:group] [pattern] <out.collmesh>\n", os.Args[0])
	fmt.Fprintf(w, "  %s inspect <file.collmesh>\n", os.Args[0])
	fmt.Fprintf(w, "\nExports the meshes with names matching /pattern/ (default /.*/) referenced by all\n")
	fmt.Fprintf(w, "objects in group (default: the master group) to a collmesh binary indexed by mesh name.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	var err error
	switch os.Args[1] {
	case "export":
		err = runExport(ctx, os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:], os.Stdout)
	case "-h", "-help", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		core.LogError(err.Error())
		stop()
		os.Exit(1)
	}
}

func runExport(ctx context.Context, args []string) error {
	var (
		configPath string
		flags      config.Flags
	)
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "TOML config file")
	fs.StringVar(&flags.Pattern, "pattern", "", "regular expression mesh names must match from their start")
	fs.StringVar(&flags.Group, "group", "", "group to export from (default: master group)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&flags.Watch, "watch", false, "export again whenever the scene file changes")
	fs.Usage = func() {
		usage(fs.Output())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		flags.Input = rest[0]
	case 2:
		flags.Input, flags.Output = rest[0], rest[1]
	case 3:
		flags.Input, flags.Pattern, flags.Output = rest[0], rest[1], rest[2]
	default:
		fs.Usage()
		return core.Configurationf("too many arguments")
	}

	var cfg config.Config
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		return core.Configurationf("log level: %v", err)
	}

	export := func() error {
		src, err := assets.Load(cfg.Input)
		if err != nil {
			return err
		}
		_, err = engine.Export(ctx, src, engine.Options{
			Group:   cfg.Group,
			Pattern: cfg.Pattern,
			Output:  cfg.Output,
		})
		return err
	}

	if err := export(); err != nil {
		if !cfg.Watch {
			return err
		}
		core.LogError(err.Error())
	}
	if !cfg.Watch {
		return nil
	}

	w, err := assets.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Watch(ctx, cfg.Input, export)
}

func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return core.Configurationf("inspect takes exactly one file")
	}

	f, err := collmesh.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Meshes   : %d\n", len(f.Meshes))
	fmt.Fprintf(out, "Vertices : %d\n", len(f.Vertices))
	for i, m := range f.Meshes {
		e := f.Entries[i]
		fmt.Fprintf(out, "  %-24s vertices [%d, %d) radius %.4f", m.Name, e.VertexBegin, e.VertexEnd, m.ContainingRadius)
		if !m.Bounds.Empty() {
			fmt.Fprintf(out, " bounds %+v %+v", m.Bounds.Min, m.Bounds.Max)
		}
		fmt.Fprintln(out)
	}
	return nil
}
