// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/regvm/machine"
	"github.com/ezrec/regvm/translate"
)

var f = translate.From

// ErrStepLimit is returned when a run exceeds --max-steps.
var ErrStepLimit = errors.New(f("step limit reached"))

// options holds the command line settings.
type options struct {
	verbose  bool
	output   string
	maxSteps int
	dump     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "regvm [flags] <image>",
		Short: "Run a program image on the register machine",
		Long: `Loads a raw program image into the machine memory, starting at
address 0, and runs it until it halts or faults.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Trace every executed instruction")
	flags.StringVarP(&opts.output, "output", "o", "-", "Output file")
	flags.IntVar(&opts.maxSteps, "max-steps", 0, "Fail after this many instructions (0 is unlimited)")
	flags.BoolVar(&opts.dump, "dump", false, "Print the registers when the run ends")

	return cmd
}

func run(opts *options, path string, stdout, stderr io.Writer) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	vm, err := machine.Load(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}
	vm.Verbose = opts.verbose

	out := stdout
	if opts.output != "-" {
		var ouf *os.File
		ouf, err = os.Create(opts.output)
		if err != nil {
			return
		}
		defer func() {
			cerr := ouf.Close()
			if err == nil {
				err = cerr
			}
		}()
		out = ouf
	}

	if opts.dump {
		defer func() { fmt.Fprint(stderr, vm.String()) }()
	}

	if opts.verbose {
		log.Printf("regvm: %v: language %v", path, translate.Language())
	}

	if opts.maxSteps <= 0 {
		err = vm.RunOn(out)
		return
	}

	for code, serr := range vm.Steps(out) {
		if serr != nil {
			err = serr
			return
		}
		if code.Op == machine.OP_HALT {
			return
		}
		if vm.Ticks >= opts.maxSteps {
			err = ErrStepLimit
			return
		}
	}

	return
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
