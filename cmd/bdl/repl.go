package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caffeineduck/bdlbridge/bridge"
	"github.com/caffeineduck/bdlbridge/loader"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive editor: compile and run each entry",
	Long: `Start an interactive editor. Each entry is compiled and run on its own.

Features:
  - Command history (up/down arrows)
  - Line editing (left/right, backspace, delete)
  - History search (Ctrl+R)
  - Multi-line input (end line with \)

Commands:
  :stdin <text>   Set the stdin passed to later programs (:stdin alone clears it)
  :status         Show the compute module state

The module loads in the background; entries made before it is ready report
that it is not initialized. Type 'exit' or 'quit' to end the session, or press
Ctrl+D.`,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.bdl_history)")
	replCmd.Flags().StringP("stdin", "i", "", "Initial stdin passed to programs")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	historyFile, _ := cmd.Flags().GetString("history")
	stdin, _ := cmd.Flags().GetString("stdin")

	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".bdl_history")
	}

	log, err := newLogger(cmd, "warn")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	l := newLoader(cmd, log)
	defer l.Close(ctx)
	l.Start(ctx)

	out, errs := new(bridge.Buffer), new(bridge.Buffer)
	b := bridge.New(l, out, errs, bridge.WithLogger(log.Named("bridge")))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            ">>> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintln(stderr, "bdl REPL (type 'exit' to quit, Ctrl+D to exit)")

	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if inMultiLine {
					multiLine.Reset()
					inMultiLine = false
					rl.SetPrompt(">>> ")
				}
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(stdout)
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		// Handle multi-line input
		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString("\n")
			inMultiLine = true
			rl.SetPrompt("... ")
			continue
		}

		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt(">>> ")
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case trimmed == "exit" || trimmed == "quit":
			return nil
		case trimmed == ":status":
			fmt.Fprintln(stderr, describeState(l.State()))
			continue
		case trimmed == ":stdin" || strings.HasPrefix(trimmed, ":stdin "):
			stdin = strings.TrimPrefix(strings.TrimPrefix(trimmed, ":stdin"), " ")
			continue
		}

		res := b.CompileAndRun(ctx, line, stdin)
		if text := out.String(); text != "" {
			fmt.Fprint(stdout, text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(stdout)
			}
		}
		if !res.OK() {
			fmt.Fprintln(stderr, errs.String())
		}
	}
	return nil
}

func describeState(s loader.State) string {
	switch s := s.(type) {
	case loader.Failed:
		return fmt.Sprintf("%s: %v", s.Status(), s.Err)
	case nil:
		return string(loader.StatusUnloaded)
	default:
		return string(s.Status())
	}
}
