package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jcorbin/gom4/internal/diag"
)

func main() {
	var (
		memLimit    int
		trace       bool
		dumpSymbols bool
	)
	flag.IntVar(&memLimit, "mem-limit", 0, "cap growable buffer sizes (bytes); 0 for unlimited")
	flag.BoolVar(&trace, "trace", false, "enable per-token trace logging")
	flag.BoolVar(&dumpSymbols, "dump-symbols", false, "dump the symbol table's chain-length histogram at shutdown")
	flag.Parse()

	log := diag.New(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	e := New(
		WithOutput(os.Stdout),
		WithDiagWriter(os.Stderr),
		WithTrace(trace),
		WithMemLimit(memLimit),
	)
	defer e.Close()

	if dumpSymbols {
		defer e.DumpSymbols()
	}

	if err := loadArgs(e, flag.Args()); err != nil {
		log.ErrorIf(err)
		return
	}

	log.ErrorIf(e.Run(context.Background()))
}

// loadArgs implements the CLI's file-loading policy: with no files,
// standard input is the drain source; with one or more files, their
// total size is pre-computed so the input stream grows once, then they
// are pushed right-to-left so the leftmost file's first byte is read
// first, and standard input is not drained.
func loadArgs(e *Engine, args []string) error {
	if len(args) == 0 {
		e.in.SetDrain(os.Stdin)
		return nil
	}

	var total int64
	for _, path := range args {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		total += fi.Size()
	}
	if total > 0 {
		if total > int64(^uint(0)>>1) {
			return fmt.Errorf("total input size %d overflows int", total)
		}
		if err := e.Reserve(int(total)); err != nil {
			return err
		}
	}

	for i := len(args) - 1; i >= 0; i-- {
		if err := e.LoadFile(args[i]); err != nil {
			return err
		}
	}
	return nil
}
