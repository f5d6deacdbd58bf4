package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lps/internal/config"
	"lps/internal/search"
)

// runInteractive reads commands from in until EOF, :quit or ctx is done,
// ticking the consumer on this goroutine between lines.
func runInteractive(ctx context.Context, ctrl *search.Controller, consumer *search.Consumer, cfg config.Config, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	fmt.Fprintln(out, "Enter a listing number or name (:stop, :clear, :quit)")
	tick := time.NewTicker(cfg.Tick)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch cmd := strings.TrimSpace(line); cmd {
			case "":
			case ":quit", ":q":
				return nil
			case ":stop":
				if !ctrl.Stop(cfg.StopTimeout) {
					fmt.Fprintln(out, "search is still winding down")
				}
			case ":clear":
				ctrl.Clear()
			default:
				ctrl.Submit(cmd)
			}
		case <-tick.C:
			consumer.Tick()
		}
	}
}

// readLines feeds the lines of r to the returned channel and closes it at
// EOF or once ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
