package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"deedles.dev/strq"
	"deedles.dev/strq/internal/harness"
	"deedles.dev/strq/internal/natsort"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("bad arguments")
	errCheck          = errors.New("check failed")
	errFailed         = errors.New("commands failed")
)

// guardByte fills the byte just past the buffer handed to RemoveHead so
// that writes beyond the buffer can be noticed.
const guardByte = 'X'

type command struct {
	args string
	help string
	run  func(c *console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new":     {"", "Create a new queue, freeing the current one", (*console).cmdNew},
		"free":    {"", "Free the queue", (*console).cmdFree},
		"ih":      {"str [n]", "Insert str at the head n times", (*console).cmdInsertHead},
		"it":      {"str [n]", "Insert str at the tail n times", (*console).cmdInsertTail},
		"rh":      {"[str]", "Remove from the head, optionally comparing against str", (*console).cmdRemoveHead},
		"rhq":     {"", "Remove from the head without reporting the value", (*console).cmdRemoveHeadQuiet},
		"size":    {"[n]", "Show the size, optionally comparing against n", (*console).cmdSize},
		"reverse": {"", "Reverse the queue", (*console).cmdReverse},
		"sort":    {"", "Sort the queue in natural order", (*console).cmdSort},
		"show":    {"", "Show the queue's contents", (*console).cmdShow},
		"option":  {"[name value]", "Show or set options", (*console).cmdOption},
		"help":    {"", "Show this help", (*console).cmdHelp},
		"quit":    {"", "Exit", (*console).cmdQuit},
	}
}

// console interprets queue commands. It tracks what the queue should
// contain and checks every result against it.
type console struct {
	log   *slog.Logger
	level *slog.LevelVar
	cfg   Config
	out   io.Writer

	alloc  *harness.Allocator
	q      *strq.Queue
	shadow []string

	failures int
	quit     bool
}

func newConsole(log *slog.Logger, level *slog.LevelVar, cfg Config, out io.Writer) *console {
	c := console{
		log:   log,
		level: level,
		cfg:   cfg,
		out:   out,
		alloc: harness.NewAllocator(cfg.Seed),
	}
	c.applyConfig()
	return &c
}

func (c *console) applyConfig() {
	c.alloc.FailProbability = c.cfg.Fail
	c.alloc.FailAfter = c.cfg.FailAfter

	if c.level != nil {
		level := slog.LevelInfo
		if c.cfg.Verbose {
			level = slog.LevelDebug
		}
		c.level.Set(level)
	}
}

// Run executes commands read from r until it runs out of input or a
// quit command is given. It returns an error if any command failed or
// if the queue's storage wasn't released correctly by the end.
func (c *console) Run(ctx context.Context, r io.Reader) error {
	s := bufio.NewScanner(r)
	var lineno int
	for !c.quit && s.Scan() {
		lineno++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fmt.Fprintf(c.out, "cmd> %v\n", line)
		args := strings.Fields(line)
		err := harness.Guard(ctx, c.cfg.TimeLimit, func() error {
			return c.exec(args)
		})
		if err != nil {
			if errors.Is(err, harness.ErrTimeout) || ctx.Err() != nil {
				return fmt.Errorf("line %v: %w", lineno, err)
			}

			c.failures++
			c.log.Error("command failed", "line", lineno, "cmd", args[0], "err", err)
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}

	c.freeQueue()
	if err := c.alloc.Check(); err != nil {
		c.failures++
		c.log.Error("storage not released", "err", err)
	}

	if c.failures > 0 {
		return fmt.Errorf("%w: %v", errFailed, c.failures)
	}
	return nil
}

func (c *console) exec(args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownCommand, args[0])
	}

	if err := cmd.run(c, args[1:]); err != nil {
		return err
	}
	return c.check()
}

// check compares the queue's size and the number of live blocks
// against what they should be.
func (c *console) check() error {
	if size := c.q.Size(); size != len(c.shadow) {
		return fmt.Errorf("%w: queue size is %v, expected %v", errCheck, size, len(c.shadow))
	}

	var blocks int
	if c.q != nil {
		blocks = 1 + 2*len(c.shadow)
	}
	if live := c.alloc.Live(); live != blocks {
		return fmt.Errorf("%w: %v blocks allocated, expected %v", errCheck, live, blocks)
	}
	if err := c.alloc.Err(); err != nil {
		return fmt.Errorf("%w: %w", errCheck, err)
	}

	c.log.Debug("queue ok", "size", len(c.shadow), "blocks", blocks, "bytes", c.alloc.Bytes())
	return nil
}

func (c *console) failuresEnabled() bool {
	return c.cfg.Fail > 0 || c.cfg.FailAfter > 0
}

func (c *console) show() {
	fmt.Fprintf(c.out, "q = %v\n", c.q)
}

func (c *console) freeQueue() {
	c.q.Free()
	c.q = nil
	c.shadow = nil
}

func (c *console) cmdNew(args []string) error {
	c.freeQueue()

	c.q = strq.New(strq.WithAllocator(c.alloc))
	if c.q == nil {
		if !c.failuresEnabled() {
			return fmt.Errorf("%w: queue allocation failed", errCheck)
		}
		c.log.Warn("queue allocation failed")
	}

	c.show()
	return nil
}

func (c *console) cmdFree(args []string) error {
	c.freeQueue()
	c.show()
	return nil
}

func (c *console) cmdInsertHead(args []string) error {
	return c.insert(args, c.q.InsertHead, func(s string) {
		c.shadow = slices.Insert(c.shadow, 0, s)
	})
}

func (c *console) cmdInsertTail(args []string) error {
	return c.insert(args, c.q.InsertTail, func(s string) {
		c.shadow = append(c.shadow, s)
	})
}

func (c *console) insert(args []string, insert func(string) bool, record func(string)) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: need a string and an optional count", errUsage)
	}

	n := 1
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			return fmt.Errorf("%w: invalid count %q", errUsage, args[1])
		}
		n = v
	}

	if c.q == nil {
		if insert(args[0]) {
			return fmt.Errorf("%w: insertion into nil queue succeeded", errCheck)
		}
		c.log.Warn("insertion into nil queue")
		c.show()
		return nil
	}

	for range n {
		if !insert(args[0]) {
			if !c.failuresEnabled() {
				return fmt.Errorf("%w: insertion of %q failed", errCheck, args[0])
			}
			c.log.Warn("insertion failed", "value", args[0])
			continue
		}
		record(args[0])
	}

	c.show()
	return nil
}

func (c *console) cmdRemoveHead(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: need at most one expected string", errUsage)
	}

	buf := make([]byte, c.cfg.Length+1)
	for i := range buf {
		buf[i] = guardByte
	}

	ok := c.q.RemoveHead(buf[:c.cfg.Length])
	if len(c.shadow) == 0 {
		if ok {
			return fmt.Errorf("%w: removal from empty queue succeeded", errCheck)
		}
		c.log.Warn("removal from empty queue")
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: removal failed", errCheck)
	}

	want := c.shadow[0]
	c.shadow = c.shadow[1:]
	if len(args) == 1 {
		want = args[0]
	}
	want = want[:min(len(want), c.cfg.Length-1)]

	if buf[c.cfg.Length] != guardByte {
		return fmt.Errorf("%w: removal wrote past the end of the buffer", errCheck)
	}
	n := bytes.IndexByte(buf, 0)
	if n < 0 {
		return fmt.Errorf("%w: removed value is not terminated", errCheck)
	}
	got := string(buf[:n])
	if got != want {
		return fmt.Errorf("%w: removed %q, expected %q", errCheck, got, want)
	}

	fmt.Fprintf(c.out, "Removed %v from queue\n", got)
	c.show()
	return nil
}

func (c *console) cmdRemoveHeadQuiet(args []string) error {
	ok := c.q.RemoveHead(nil)
	if len(c.shadow) == 0 {
		if ok {
			return fmt.Errorf("%w: removal from empty queue succeeded", errCheck)
		}
		c.log.Warn("removal from empty queue")
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: removal failed", errCheck)
	}

	c.shadow = c.shadow[1:]
	c.show()
	return nil
}

func (c *console) cmdSize(args []string) error {
	size := c.q.Size()
	fmt.Fprintf(c.out, "Queue size = %v\n", size)

	if len(args) == 1 {
		want, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: invalid size %q", errUsage, args[0])
		}
		if size != want {
			return fmt.Errorf("%w: queue size is %v, expected %v", errCheck, size, want)
		}
	}
	return nil
}

func (c *console) cmdReverse(args []string) error {
	c.q.Reverse()
	slices.Reverse(c.shadow)
	c.show()
	return nil
}

func (c *console) cmdSort(args []string) error {
	c.q.Sort()
	slices.SortStableFunc(c.shadow, natsort.Compare[string])
	c.show()
	return nil
}

func (c *console) cmdShow(args []string) error {
	c.show()
	return nil
}

func (c *console) cmdOption(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintf(c.out, "fail = %v\n", c.cfg.Fail)
		fmt.Fprintf(c.out, "fail_after = %v\n", c.cfg.FailAfter)
		fmt.Fprintf(c.out, "length = %v\n", c.cfg.Length)
		fmt.Fprintf(c.out, "time_limit = %v\n", c.cfg.TimeLimit)
		fmt.Fprintf(c.out, "verbose = %v\n", c.cfg.Verbose)
		return nil
	case 2:
	default:
		return fmt.Errorf("%w: need an option name and a value", errUsage)
	}

	cfg := c.cfg
	name, val := args[0], args[1]
	var err error
	switch name {
	case "fail":
		cfg.Fail, err = strconv.Atoi(val)
	case "fail_after":
		cfg.FailAfter, err = strconv.Atoi(val)
	case "length":
		cfg.Length, err = strconv.Atoi(val)
	case "time_limit":
		cfg.TimeLimit, err = time.ParseDuration(val)
	case "verbose":
		cfg.Verbose, err = strconv.ParseBool(val)
	default:
		return fmt.Errorf("%w: unknown option %q", errUsage, name)
	}
	if err != nil {
		return fmt.Errorf("%w: option %v: %w", errUsage, name, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.applyConfig()
	return nil
}

func (c *console) cmdHelp(args []string) error {
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		fmt.Fprintf(c.out, "  %-20v| %v\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
	return nil
}

func (c *console) cmdQuit(args []string) error {
	c.quit = true
	return nil
}
