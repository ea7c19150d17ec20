package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rdreport/internal/config"
	"github.com/alnah/go-rdreport/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML: the defaults,
// overlaid with the config file when -c is given. The output is a valid
// config file.
func runConfigCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.StringP("config", "c", "", "config file name or path")
	if err := parse(fs, args, env.Stderr, printConfigUsage); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	cfg := config.DefaultConfig()
	if *name != "" {
		var err error
		if cfg, err = config.LoadConfig(*name); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	convert := cfg.ConvertEnabled()
	cfg.PDF.Convert = &convert
	inc := cfg.IncludeSet()
	cfg.Include = make(map[string]bool, len(inc))
	for k, v := range inc {
		cfg.Include[string(k)] = v
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
