// Package main provides the CLI entrypoint for rowdump.
//
// rowdump reads CSV and prints every row as JSON, one value per line, after running it
// through the dynamic row resolver:
//   - with -header the first row names the columns and rows print as objects
//   - without it rows print as arrays
//   - -overlay loads YAML member annotations into the describer
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"rowbinder/codec"
	"rowbinder/describe"
	"rowbinder/dynamic"
	"rowbinder/introspect"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "rowdump:", err)
		os.Exit(1)
	}
}

type config struct {
	in        string
	header    bool
	overlay   string
	logLevel  string
	logFormat string
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("rowdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.in, "in", "-", "CSV file to read, - for stdin")
	fs.BoolVar(&cfg.header, "header", true, "the first row names the columns")
	fs.StringVar(&cfg.overlay, "overlay", "", "YAML overlay with member annotations")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&cfg.logFormat, "log-format", "console", "console or json")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.logLevel, cfg.logFormat, stderr)
	defer func() { _ = logger.Sync() }()

	opts := describe.DefaultOptions()
	opts.Logger = logger

	if cfg.overlay != "" {
		opts.Overlay, err = introspect.LoadOverlay(cfg.overlay)
		if err != nil {
			return err
		}
	}

	src := stdin

	if cfg.in != "-" {
		f, err := os.Open(cfg.in)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		src = f
	}

	return dump(describe.NewDefault(opts), csv.NewReader(src), cfg.header, stdout, logger)
}

// dump converts every CSV row to an untyped value and writes it as JSON.
func dump(d describe.Describer, r *csv.Reader, header bool, w io.Writer, logger *zap.Logger) error {
	var names []string

	if header {
		first, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		names = first
	}

	enc := json.NewEncoder(w)
	target := reflect.TypeFor[any]()

	var conv dynamic.Converter

	for n := 0; ; n++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			logger.Info("rows dumped", zap.Int("rows", n))

			return nil
		}

		if err != nil {
			return fmt.Errorf("read row %d: %w", n, err)
		}

		row := dynamic.NewRecord(names, cells)

		// csv.Reader keeps every row as wide as the first one
		if n == 0 {
			conv = d.DynamicRowConverter(row.Shape(), target)
			if !conv.OK() {
				return fmt.Errorf("no conversion for rows of %d columns", row.Width())
			}
		}

		v, ok := conv.Convert(row, codec.Context{Row: n})
		if !ok {
			logger.Warn("row rejected", zap.Int("row", n))

			continue
		}

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write row %d: %w", n, err)
		}
	}
}
