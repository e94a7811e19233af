package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/sergev/minijs/config"
	"github.com/sergev/minijs/lang"
	"github.com/sergev/minijs/parser"
	"github.com/sergev/minijs/runtime"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cliFlags holds the command-line settings.
type cliFlags struct {
	configPath string
	seed       int64
	maxDepth   int
	source     string
	verbose    bool
	dumpAST    bool
}

func initFlags(flags *pflag.FlagSet, f *cliFlags) {
	flags.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	flags.Int64Var(&f.seed, "seed", 0, "seed for console.random")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "maximum nested call depth")
	flags.StringVarP(&f.source, "eval", "e", "", "program text to run instead of a file")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log configuration details to stderr")
	flags.BoolVar(&f.dumpAST, "ast", false, "print the parsed tree instead of running it")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli cliFlags
	flags := pflag.NewFlagSet("minijs", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	initFlags(flags, &cli)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: minijs [flags] [script | -]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	log := newLogger(stderr, cli.verbose)
	cfg, err := config.Resolve(cli.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "minijs: %v\n", err)
		return 2
	}
	// the console and the REPL share one buffer over stdin
	buffered := bufio.NewReader(stdin)
	opts := runtime.Options{
		Stdout:   stdout,
		Stdin:    buffered,
		MaxDepth: cfg.MaxDepth,
	}
	if cfg.RandomSeed != nil {
		opts.Seed, opts.HasSeed = *cfg.RandomSeed, true
	}
	if flags.Changed("seed") {
		opts.Seed, opts.HasSeed = cli.seed, true
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = cli.maxDepth
	}
	log.Debug().
		Str("config", cfg.Path).
		Int("max_depth", opts.MaxDepth).
		Bool("seeded", opts.HasSeed).
		Msg("settings resolved")

	in := runtime.NewInterpreter(opts)
	rest := flags.Args()
	if cli.dumpAST {
		return dumpProgram(in, cli.source, rest, buffered, stdout, stderr)
	}
	switch {
	case cli.source != "":
		_, err = runtime.EvaluateString(in, cli.source)
	case len(rest) > 0 && rest[0] == "-":
		_, err = runtime.EvaluateReader(in, buffered)
	case len(rest) > 0:
		log.Debug().Str("script", rest[0]).Msg("running file")
		_, err = runtime.EvaluateFile(in, rest[0])
	default:
		runREPL(in, cfg, log, stdin, buffered, stdout, stderr)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "minijs: %v\n", err)
		return 1
	}
	return 0
}

// newLogger returns the diagnostics logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// dumpProgram parses the selected program and prints its tree.
func dumpProgram(in *lang.Interpreter, source string, rest []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	switch {
	case source != "":
	case len(rest) > 0 && rest[0] == "-":
		source, err = runtime.ReadSource(stdin)
	case len(rest) > 0:
		source, err = runtime.ReadFile(rest[0])
	default:
		fmt.Fprintf(stderr, "minijs: --ast needs a script or -e\n")
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "minijs: %v\n", err)
		return 1
	}
	prog, err := in.Parse(source)
	if err != nil {
		fmt.Fprintf(stderr, "minijs: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, parser.Dump(prog))
	return 0
}

func runREPL(in *lang.Interpreter, cfg *config.Config, log zerolog.Logger, stdin io.Reader, buffered *bufio.Reader, stdout, stderr io.Writer) {
	if f, ok := stdin.(*os.File); ok && isInteractive(f) {
		runInteractiveREPL(in, cfg, log, stdout, stderr)
		return
	}
	runBufferedREPL(in, buffered, stdout, stderr)
}

// evalInput runs one complete REPL input. It reports false when the input
// is incomplete and more lines are needed.
func evalInput(in *lang.Interpreter, src string, stdout, stderr io.Writer) bool {
	prog, err := in.Parse(src)
	if err != nil {
		if parser.IsIncomplete(err) {
			return false
		}
		fmt.Fprintf(stderr, "syntax error: %v\n", err)
		return true
	}
	val, err := in.Execute(prog)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return true
	}
	if isBareExpression(prog) {
		fmt.Fprintln(stdout, val.String())
	}
	return true
}

func isBareExpression(prog *parser.BlockCmd) bool {
	if len(prog.Cmds) == 0 {
		return false
	}
	stmt, ok := prog.Cmds[len(prog.Cmds)-1].(*parser.AssignCmd)
	return ok && stmt.Target == nil
}

func runBufferedREPL(in *lang.Interpreter, reader *bufio.Reader, stdout, stderr io.Writer) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "read error: %v\n", err)
			return
		}
		atEOF := errors.Is(err, io.EOF)
		if atEOF && buffer.Len() == 0 && line == "" {
			return
		}
		buffer.WriteString(line)
		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			if atEOF {
				return
			}
			continue
		}
		if evalInput(in, src, stdout, stderr) {
			buffer.Reset()
		} else if atEOF {
			fmt.Fprintf(stderr, "syntax error: unexpected end of input\n")
		}
		if atEOF {
			return
		}
	}
}

func runInteractiveREPL(in *lang.Interpreter, cfg *config.Config, log zerolog.Logger, stdout, stderr io.Writer) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.Warn().Err(err).Str("file", cfg.HistoryFile).Msg("cannot read history")
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(cfg.HistoryFile)
			if err != nil {
				log.Warn().Err(err).Str("file", cfg.HistoryFile).Msg("cannot save history")
				return
			}
			state.WriteHistory(f)
			f.Close()
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.Prompt
		if buffer.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(stdout)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(stdout)
				return
			default:
				fmt.Fprintf(stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}
		if !evalInput(in, src, stdout, stderr) {
			continue
		}
		buffer.Reset()
		state.AppendHistory(strings.TrimSpace(src))
	}
}

func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
