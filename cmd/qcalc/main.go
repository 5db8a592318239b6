// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

// Command qcalc is a thin CLI over the qcalc package: one line of
// input in, one line of output out, variables persisted between
// invocations via a dotfile.
//
// Grounded on the teacher's calc.go:main (stdin/argv handling, die())
// and options.go:scanOptions (hand-rolled flag scanner, no getopt
// dependency anywhere in the pack to reach for).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mikecarlton/qcalc/internal/lexer"
	"github.com/mikecarlton/qcalc/qcalc"
)

type cliOptions struct {
	group        bool
	base         int
	decimalComma bool
	date         string
	live         bool
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: qcalc [OPTIONS] EXPRESSION...
Options:
  -g          Group digits on output (',' decimal, '_' other bases)
  -b BASE     Default display base, 2..36 (default 10)
  -c          Use ',' as the decimal separator instead of '.'
  -D DATE     Exchange-rate date for currency conversions (YYYY-MM-DD)
  -l          Fetch live currency exchange rates
  -h          Show this help
`)
}

func scanOptions(args []string) ([]string, cliOptions) {
	opt := cliOptions{base: 10}
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h":
			usage()
			os.Exit(0)
		case "-g":
			opt.group = true
		case "-c":
			opt.decimalComma = true
		case "-l":
			opt.live = true
		case "-b":
			if i+1 >= len(args) {
				die("Missing required argument for '-b', exiting")
			}
			i++
			base, err := strconv.Atoi(args[i])
			if err != nil {
				die("Integer argument required for '-b', cannot parse '%s', exiting", args[i])
			}
			opt.base = base
		case "-D":
			if i+1 >= len(args) {
				die("Missing required argument for '-D', exiting")
			}
			i++
			opt.date = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, opt
}

// varsPath is where the user scope persists between invocations,
// mirroring database.go's "open on demand under $HOME" convention.
func varsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qcalc-vars"
	}
	return filepath.Join(home, ".qcalc-vars")
}

func loadVars() []byte {
	b, err := os.ReadFile(varsPath())
	if err != nil {
		return nil
	}
	return b
}

func saveVars(b []byte) {
	if err := os.WriteFile(varsPath(), b, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save variables: %v\n", err)
	}
}

func readStdinExpressions() []string {
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			die("Error: %v, exiting", r)
		}
	}()

	args, opt := scanOptions(os.Args[1:])

	stdinAvailable := false
	if stat, err := os.Stdin.Stat(); err == nil {
		stdinAvailable = (stat.Mode() & os.ModeCharDevice) == 0
	}
	if len(args) == 0 && !stdinAvailable {
		usage()
		os.Exit(1)
	}

	cfg := qcalc.Config{BaseHint: opt.base, Group: opt.group}
	if opt.decimalComma {
		cfg.DecimalStyle = lexer.DecimalComma
	}
	if cache, closeFn, err := qcalc.OpenUnitCache(); err == nil {
		defer closeFn()
		cfg.UnitCache = cache
	} else {
		fmt.Fprintf(os.Stderr, "Warning: unit-resolution cache unavailable: %v\n", err)
	}
	if opt.live {
		handler, closeFn, err := qcalc.OpenCurrencyHandler(opt.date)
		if err != nil {
			die("Failed to open currency handler: %v", err)
		}
		defer closeFn()
		cfg.Currency = handler
	}

	inputs := args
	if stdinAvailable {
		inputs = append(readStdinExpressions(), args...)
	}

	vars := loadVars()
	ctx := context.Background()
	for _, input := range inputs {
		result := qcalc.Evaluate(ctx, input, vars, cfg)
		if !result.OK {
			die("%v", result.Err)
		}
		fmt.Print(result.Output)
		vars = result.Variables
	}
	saveVars(vars)
}
