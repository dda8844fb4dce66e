// qtest drives a string queue through a script of commands, checking
// every result and all of the queue's storage accounting along the way.
//
// Commands are read one per line from standard input, or from the file
// given with -f. Run the help command for a list.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
)

func run() int {
	script := flag.String("f", "", "read commands from `file` instead of stdin")
	config := flag.String("c", "", "load options from a YAML `file`")
	verbose := flag.Bool("v", false, "log every check")
	flag.Parse()

	cfg := DefaultConfig()
	if *config != "" {
		c, err := LoadConfig(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qtest: %v\n", err)
			return 2
		}
		cfg = c
	}
	if *verbose {
		cfg.Verbose = true
	}

	var level slog.LevelVar
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	var in io.Reader = os.Stdin
	if *script != "" {
		file, err := os.Open(*script)
		if err != nil {
			log.Error("open script", "err", err)
			return 2
		}
		defer file.Close()
		in = file
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newConsole(log, &level, cfg, os.Stdout)
	if err := c.Run(ctx, in); err != nil {
		log.Error("qtest failed", "err", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
