package main

import (
	"countrystore/internal/config"
	"countrystore/internal/engine"
	"countrystore/internal/logging"
	"countrystore/internal/shell"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	store := engine.NewStore(cfg.Store.Capacity)
	store.WithLogger(log)
	if cfg.Store.DataFile != "" {
		if _, err := store.LoadFile(cfg.Store.DataFile); err != nil {
			log.Warn("initial load incomplete", zap.Error(err))
		}
	}

	interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)

	var out io.Writer = os.Stdout
	if interactive {
		out = colorable.NewColorableStdout()
	}

	sh := shell.New(store, out)
	sh.Logger = log
	if interactive {
		sh.Prompt = "> "
		sh.Color = true
	}

	if err := sh.Run(os.Stdin); err != nil {
		log.Error("reading commands", zap.Error(err))
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
