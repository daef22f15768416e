package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/report"
)

// NewValidateCommand creates the validate subcommand: check a produced
// report's schema version and internal consistency. Exit code 1 on
// validation failure, 2 on command errors.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <report.json>",
		Short: "Validate a report document",
		Long: `Validate checks that a report document carries the expected schema
version and that its counters are internally consistent (the same
checks a careful consumer performs before rendering).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalid+": read report", err)
	}

	errs := report.Validate(data)
	if len(errs) == 0 {
		return formatter.Success(fmt.Sprintf("%s: valid (schema %s)", path, report.SchemaVersion))
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}
	formatter.Error(ErrCodeInvalid, fmt.Sprintf("%s: %d validation failure(s)", path, len(errs)), messages)
	return NewExitError(ExitFailure, fmt.Sprintf("report failed validation: %d problem(s)", len(errs)))
}
