package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/cyclesim/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Processes string
	Resources string
	Actions   string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate input files without running the simulation",
		Long: `Parse processes, resources, and an action script and report any
malformed lines, without running the simulation. Faster than run for
catching input errors during authoring.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Processes, "processes", "", "path to processes input file (required)")
	_ = cmd.MarkFlagRequired("processes")
	cmd.Flags().StringVar(&opts.Resources, "resources", "", "path to resources input file")
	cmd.Flags().StringVar(&opts.Actions, "actions", "", "path to action script input file")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var errs []string

	if _, err := loader.LoadProcesses(opts.Processes); err != nil {
		errs = append(errs, describeLoadError(err))
	}
	if opts.Resources != "" {
		if _, err := loader.LoadResources(opts.Resources); err != nil {
			errs = append(errs, describeLoadError(err))
		}
	}
	if opts.Actions != "" {
		if _, err := loader.LoadActions(opts.Actions); err != nil {
			errs = append(errs, describeLoadError(err))
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter)
}

func describeLoadError(err error) string {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Error()
	}
	return err.Error()
}

func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "valid")
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []string) error {
	if formatter.Format == "json" {
		if err := formatter.Success(ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "invalid")
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
