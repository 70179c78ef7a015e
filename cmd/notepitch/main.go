package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gethiox/notepitch/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
)

var log = logger.GetLogger()

var (
	configPath string
	nocolor    bool
	logLevel   int
)

func init() {
	flag.StringVar(&configPath, "config", "./notepitch-config/notepitch.config", "path to ini config file")
	flag.BoolVar(&nocolor, "nocolor", false, "disable colored output")
	flag.IntVar(&logLevel, "loglevel", -1, "override log level (0 - errors, 1 - warnings, 2 - info, 378 - debug)")
	flag.Usage = usage
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [args]\n\nCommands:\n", os.Args[0])
	for _, name := range commandNames() {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func loadConfig() NotePitchConfig {
	cfg, err := LoadNotePitchConfig(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info(fmt.Sprintf("config %s not found, using defaults", configPath), logger.Debug)
			return DefaultConfig()
		}
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(2)
	}
	return cfg
}

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func()) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		counter++
	}
}

func run(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command \"%s\"", ErrUsage, args[0])
	}
	err := cmd.run(ctx, env, args[1:])
	if errors.Is(err, ErrUsage) {
		return fmt.Errorf("%w\nusage: %s", err, cmd.usage)
	}
	return err
}

func main() {
	flag.Parse()

	cfg := loadConfig()
	if logLevel >= 0 {
		cfg.NotePitch.LogLevel = logLevel
	}
	if nocolor {
		cfg.NotePitch.Color = false
	}

	var wg sync.WaitGroup

	au := aurora.NewAurora(cfg.NotePitch.Color)
	feeder := NewFeeder(os.Stderr, cfg.NotePitch.LogLevel, au)
	feederDone := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		feeder.Feed(logger.Messages, feederDone)
	}()

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	wg.Add(1)
	go handleSigs(&wg, sigs, cancel)

	log.Info(fmt.Sprintf("config: %+v", cfg), logger.Debug)

	env := &Env{
		Config: cfg,
		Out:    NewPrinter(os.Stdout, cfg.NotePitch.Color, cfg.NotePitch.Glyphs),
	}

	err := run(ctx, env, flag.Args())
	if err != nil {
		log.Info(err.Error(), logger.Error)
	}

	cancel()
	signal.Stop(sigs)
	close(sigs)
	close(feederDone)
	wg.Wait()

	if err != nil {
		if errors.Is(err, ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
