package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/varnamd/internal/scheme"
)

// SchemeSummary describes one valid scheme.
type SchemeSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Vowels      int    `json:"vowels"`
	Consonants  int    `json:"consonants"`
	FinalVirama bool   `json:"final_virama"`
}

// SchemeProblem is one compile error.
type SchemeProblem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// SchemeValidation is the result of schemes validate.
type SchemeValidation struct {
	Valid    bool            `json:"valid"`
	Schemes  []SchemeSummary `json:"schemes"`
	Problems []SchemeProblem `json:"problems,omitempty"`
}

func (v SchemeValidation) writeText(w io.Writer) error {
	for _, s := range v.Schemes {
		fmt.Fprintf(w, "✓ %s (%s): %d vowels, %d consonants\n", s.Code, s.Name, s.Vowels, s.Consonants)
	}
	for _, p := range v.Problems {
		switch {
		case p.Line > 0:
			fmt.Fprintf(w, "✗ %s:%d: %s\n", p.File, p.Line, p.Message)
		case p.Field != "":
			fmt.Fprintf(w, "✗ %s: %s\n", p.Field, p.Message)
		default:
			fmt.Fprintf(w, "✗ %s\n", p.Message)
		}
	}
	return nil
}

// NewSchemesCommand creates the schemes command group.
func NewSchemesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "Inspect phonetic schemes",
	}
	cmd.AddCommand(newSchemesValidateCommand(rootOpts))
	return cmd
}

func newSchemesValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Compile schemes and report every error",
		Long: `Compile every .cue scheme in dir (the builtin schemes when omitted) and
report all errors instead of stopping at the first.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runSchemesValidate(rootOpts, cmd, dir)
		},
	}
}

func runSchemesValidate(opts *RootOptions, cmd *cobra.Command, dir string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if dir == "" {
		formatter.VerboseLog("validating builtin schemes")
	} else {
		formatter.VerboseLog("validating schemes in %s", dir)
	}

	schemes, errs := scheme.LoadAll(scheme.Source(dir))

	result := SchemeValidation{Valid: len(errs) == 0, Schemes: []SchemeSummary{}}
	for _, s := range schemes {
		result.Schemes = append(result.Schemes, SchemeSummary{
			Code:        string(s.Code),
			Name:        s.Name,
			Vowels:      len(s.Vowels),
			Consonants:  len(s.Consonants),
			FinalVirama: s.FinalVirama,
		})
	}
	for _, err := range errs {
		result.Problems = append(result.Problems, problemFrom(err))
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}
	return nil
}

func problemFrom(err error) SchemeProblem {
	var cerr *scheme.CompileError
	if !errors.As(err, &cerr) {
		return SchemeProblem{Message: err.Error()}
	}
	p := SchemeProblem{Field: cerr.Field, Message: cerr.Message}
	if cerr.Pos.IsValid() {
		p.File = cerr.Pos.Filename()
		p.Line = cerr.Pos.Line()
	}
	return p
}
