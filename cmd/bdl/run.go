package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caffeineduck/bdlbridge/bridge"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and run one program",
	Long: `Compile and run a program with the compute module.

Source can be provided via:
  - File argument: bdl run prog.bdl
  - Inline flag: bdl run -c 'print(1+1)'
  - Stdin: echo 'print(1+1)' | bdl run

Program input is given with --stdin or --stdin-file. The module's result is
written to stdout; failures go to stderr and exit with status 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Source to compile")
	cmd.Flags().StringP("stdin", "i", "", "Text passed to the program as stdin")
	cmd.Flags().String("stdin-file", "", "File passed to the program as stdin")
}

func readStdin(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("stdin-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	stdin, _ := cmd.Flags().GetString("stdin")
	return stdin, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	source, ok, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if !ok {
		return cmd.Help()
	}

	stdin, err := readStdin(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, "warn")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	l := newLoader(cmd, log)
	defer l.Close(ctx)

	// A one-shot run has nothing to do before the module is ready.
	l.Start(ctx)
	l.Wait(ctx)

	out, errs := new(bridge.Buffer), new(bridge.Buffer)
	b := bridge.New(l, out, errs, bridge.WithLogger(log.Named("bridge")))

	res := b.CompileAndRun(ctx, source, stdin)
	fmt.Fprint(cmd.OutOrStdout(), out.String())

	if !res.OK() {
		fmt.Fprintln(cmd.ErrOrStderr(), errs.String())
		return errFailed
	}
	return nil
}
