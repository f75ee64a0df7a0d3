package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gamewire/codec"
	"github.com/wippyai/gamewire/packet"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to TOML config file")
		direction   = flag.String("dir", "to_clt", "Packet direction (to_clt or to_srv)")
		format      = flag.String("format", formatHex, "Input format (hex: one packet per line, raw: single packet)")
		logLevel    = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
		list        = flag.Bool("list", false, "List opcodes for the direction and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pktinspect [-dir to_clt|to_srv] [-format hex|raw] [file|-]")
		fmt.Fprintln(os.Stderr, "       pktinspect -dir to_srv -list")
		fmt.Fprintln(os.Stderr, "       pktinspect -i capture.hex  (interactive mode)")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Direction = *direction
		case "format":
			cfg.InputFormat = *format
		case "log-level":
			cfg.LogLevel = *logLevel
		case "i":
			cfg.Interactive = *interactive
		}
	})
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	codec.SetLogger(log.Named("codec"))

	if err := run(cfg, flag.Args(), *list, log); err != nil {
		log.Error("inspect failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, args []string, listOnly bool, log *zap.Logger) error {
	dir, err := packet.ParseDirection(cfg.Direction)
	if err != nil {
		return err
	}

	if listOnly {
		cmds, err := packet.Commands(dir)
		if err != nil {
			return err
		}
		for _, c := range cmds {
			fmt.Printf("%5d  %s\n", c.Opcode, c.Name)
		}
		return nil
	}

	source := "-"
	if len(args) > 0 {
		source = args[0]
	}
	in, closeIn, err := openInput(source)
	if err != nil {
		return err
	}
	defer closeIn()

	bodies, err := readPackets(in, cfg.InputFormat)
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	entries := decodeAll(dir, bodies)

	failed := 0
	for _, e := range entries {
		if e.err != nil {
			failed++
			log.Debug("decode failed", zap.Int("packet", e.index), zap.Error(e.err))
		}
	}
	log.Info("decoded packets",
		zap.String("source", source),
		zap.Stringer("direction", dir),
		zap.Int("packets", len(entries)),
		zap.Int("failed", failed))

	if cfg.Interactive {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runInteractive(source, entries)
		}
		log.Warn("stdout is not a terminal, printing instead")
	}

	printEntries(os.Stdout, entries)
	if failed > 0 {
		return fmt.Errorf("%d of %d packets failed to decode", failed, len(entries))
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printEntries(w io.Writer, entries []entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.title())
		fmt.Fprintln(w, e.detail())
	}
}
