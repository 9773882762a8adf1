// Command klassgen generates klass registrations from klass.yaml.
//
// Usage:
//
//	klassgen [-config path] [-o file] [-dry-run] [-v]
//
// Without -config, klass.yaml is searched from the working directory
// upwards. The generated file is written into the inspected package
// directory unless -o names another path.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/funvibe/klass/internal/config"
	"github.com/funvibe/klass/internal/gen"
	"github.com/funvibe/klass/internal/logger"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

type options struct {
	configPath string
	output     string
	dryRun     bool
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to "+config.ConfigFileName)
	flag.StringVar(&opts.output, "o", "", "output file (default: <package dir>/<output from config>)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the generated code instead of writing it")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Parse()

	lg := logger.Logger()
	if opts.verbose {
		lg.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts, lg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", paint(os.Stderr, colorRed, "error"), err)
		os.Exit(1)
	}
}

func run(opts options, lg logrus.FieldLogger, stdout io.Writer) error {
	configPath := opts.configPath
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		found, err := gen.FindConfig(cwd)
		if err != nil {
			return err
		}
		if found == "" {
			return fmt.Errorf("%s not found (or use -config)", config.ConfigFileName)
		}
		configPath = found
	}
	lg.WithField("config", configPath).Debug("loading config")

	cfg, err := gen.LoadConfig(configPath)
	if err != nil {
		return err
	}

	inspector := gen.NewInspector(filepath.Dir(configPath))
	result, err := inspector.Inspect(cfg)
	if err != nil {
		return fmt.Errorf("inspection: %w", err)
	}
	for _, rt := range result.Types {
		lg.WithFields(logrus.Fields{
			"type":           rt.Name,
			"constructors":   rt.Constructors,
			"static_fields":  rt.StaticFields,
			"static_methods": rt.StaticMethods,
		}).Debug("type resolved")
	}

	file, err := gen.NewCodeGenerator("").Generate(result, cfg.Output)
	if err != nil {
		return err
	}

	if opts.dryRun {
		_, err := stdout.Write(file.Content)
		return err
	}

	target := opts.output
	if target == "" {
		target = filepath.Join(result.Dir, file.Filename)
	}
	if err := os.WriteFile(target, file.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	fmt.Fprintf(stdout, "%s %s (%d types)\n", paint(stdout, colorGreen, "generated"), target, len(result.Types))
	return nil
}

// paint colors s when w is a terminal and NO_COLOR is unset.
func paint(w io.Writer, color, s string) string {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return s
	}
	f, ok := w.(*os.File)
	if !ok {
		return s
	}
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return s
	}
	return color + s + colorReset
}
