package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sgj123456/MP-lang/mp"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return runREPL()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only parse the script without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("mp run: script path required")
	}
	input, err := os.ReadFile(remaining[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	tokens, err := mp.Tokenize(string(input))
	if err != nil {
		return err
	}
	program, err := mp.Parse(tokens)
	if err != nil {
		return err
	}
	if *checkOnly {
		return nil
	}
	result, err := mp.Eval(program)
	if err != nil {
		return err
	}
	fmt.Printf("=> %s\n", result.String())
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [run|fmt|repl] ...\n", prog)
	fmt.Fprintf(os.Stderr, "  %s run [-check] <script>\n", prog)
	fmt.Fprintln(os.Stderr, "    evaluate a script and print its result")
	fmt.Fprintf(os.Stderr, "  %s fmt [-w] [-check] <paths>\n", prog)
	fmt.Fprintln(os.Stderr, "    reprint scripts in canonical form")
	fmt.Fprintf(os.Stderr, "  %s repl\n", prog)
	fmt.Fprintln(os.Stderr, "    start the interactive session (also the default)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
