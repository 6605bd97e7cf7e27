package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pyvmt/pyvmt/pkg/encode"
	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/solver"
	"github.com/pyvmt/pyvmt/pkg/vmtlib"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// CLI flags
var (
	algName    string
	inputPath  string
	outputPath string
	propIdx    int
	checkProp  bool
)

// encoders maps algorithm names to encoding functions
var encoders = map[string]func(*model.Model, *expr.Expr) (*model.Model, error){
	"ltl2smv":       encode.LTL,
	"circuit":       encode.Circuit,
	"ltlf2smv":      encode.LTLf,
	"safetyltl2smv": encode.SafetyLTL,
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ltl2vmt",
		Short: "ltl2vmt encodes LTL properties of a VMT model for model checking",
		Long: `ltl2vmt reads a VMT-LIB model, encodes the selected LTL or LTLf
property into the transition system, and writes the resulting model.
The tableau encoders (ltl2smv, circuit) produce a liveness property;
the finite-trace encoders (ltlf2smv, safetyltl2smv) produce an
invariant property.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doEncode(out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&algName, "alg", "a", "ltl2smv",
		"Encoding algorithm: ltl2smv, circuit, ltlf2smv, or safetyltl2smv")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"Input file, defaults to the standard input")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output file, defaults to the standard output")
	rootCmd.Flags().IntVarP(&propIdx, "idx", "n", 0,
		"Index of the property to encode")
	rootCmd.Flags().BoolVarP(&checkProp, "check-prop", "c", false,
		"Check the encoded property with ic3ia")

	return rootCmd
}

func doEncode(out, errOut io.Writer) error {
	alg, ok := encoders[algName]
	if !ok {
		return fmt.Errorf("unknown algorithm %q", algName)
	}

	in := io.Reader(os.Stdin)
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			fmt.Fprintf(errOut, "ltl2vmt: error reading %s: %v\n", inputPath, err)
			return err
		}
		defer f.Close()
		in = f
	}

	env := expr.NewEnv()
	m, err := vmtlib.Read(in, env)
	if err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}

	prop, err := m.Property(propIdx)
	if err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}
	if prop.Kind != model.Ltl && prop.Kind != model.Ltlf {
		err := fmt.Errorf("%w: expected an LTL property, found %s",
			model.ErrInvalidPropertyType, prop.Kind)
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}

	encoded, err := alg(m, prop.Formula)
	if err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: encoding failed: %v\n", err)
		return err
	}

	dst := out
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			fmt.Fprintf(errOut, "ltl2vmt: error creating %s: %v\n", outputPath, err)
			return err
		}
		defer f.Close()
		dst = f
	}
	if err := vmtlib.Serialize(dst, encoded); err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}

	if checkProp {
		return doCheck(encoded, errOut)
	}
	return nil
}

func doCheck(m *model.Model, errOut io.Writer) error {
	ic3ia, err := solver.NewIc3ia(m, nil)
	if err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}
	res, err := ic3ia.CheckPropertyIdx(0)
	if err != nil {
		fmt.Fprintf(errOut, "ltl2vmt: %v\n", err)
		return err
	}
	if res.IsSafe() {
		fmt.Fprintf(errOut, "ltl2vmt: property %d is safe\n", propIdx)
	} else {
		fmt.Fprintf(errOut, "ltl2vmt: property %d is unsafe\n", propIdx)
	}
	return nil
}
