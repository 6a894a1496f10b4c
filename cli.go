// Completion: 100% - Subcommands complete
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	hex "github.com/tmthrgd/go-hex"

	"github.com/xyproto/yellowcake/internal/engine"
	"github.com/xyproto/yellowcake/internal/il"
)

// cli.go - command-line interface
//
//	yellowcake run <file.il>     (compile, execute natively, print the result)
//	yellowcake interp <file.il>  (run the reference interpreter)
//	yellowcake asm <file.il>     (print Intel-syntax assembly)
//	yellowcake hex <file.il>     (print the machine code as hex)
//
// A file name of "-" reads the listing from stdin.

func newRootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "yellowcake",
		Short:         "Compile stack IL to x86-64 and run it in-process",
		Version:       versionString,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log every compilation step to stderr")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: logfmt or json")
	root.PersistentFlags().StringVar(&cfg.Entry, "entry", cfg.Entry, "function name to use instead of the listing's")

	root.AddCommand(
		newRunCommand(cfg),
		newInterpCommand(cfg),
		newAsmCommand(cfg),
		newHexCommand(cfg),
	)
	return root
}

func newRunCommand(cfg *Config) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Compile the listing and execute it natively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := readFunction(cmd.InOrStdin(), args[0], cfg)
			if err != nil {
				return err
			}
			run := engine.Run
			if check {
				run = engine.Check
			}
			result, err := run(fn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "also run the interpreter and fail if the results differ")
	return cmd
}

func newInterpCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "interp <file>",
		Short: "Run the listing with the reference interpreter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := readFunction(cmd.InOrStdin(), args[0], cfg)
			if err != nil {
				return err
			}
			result, err := il.Interpret(fn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newAsmCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "asm <file>",
		Short: "Print the generated code as Intel-syntax assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := readFunction(cmd.InOrStdin(), args[0], cfg)
			if err != nil {
				return err
			}
			text, err := engine.Listing(fn)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newHexCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "hex <file>",
		Short: "Print the assembled machine code as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := readFunction(cmd.InOrStdin(), args[0], cfg)
			if err != nil {
				return err
			}
			code, err := engine.Compile(fn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(code))
			return nil
		},
	}
}

// readFunction reads and parses a listing from path, or from stdin for "-"
func readFunction(stdin io.Reader, path string, cfg *Config) (*il.Function, error) {
	var (
		src []byte
		err error
	)
	if path == "-" {
		src, err = io.ReadAll(stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	fn, err := il.Parse(path, string(src))
	if err != nil {
		return nil, err
	}
	if cfg.Entry != "" {
		fn.Name = cfg.Entry
	}
	return fn, nil
}
