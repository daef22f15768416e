package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect subcommand: print one
// top-level section of a report document.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <report.json> <section>",
		Short: "Print one section of a report",
		Long: `Inspect prints a single top-level section of a report document
(e.g. core_stats, awards, fun_facts) as indented JSON.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, rootOpts, args[0], args[1])
		},
	}
	return cmd
}

func runInspect(cmd *cobra.Command, rootOpts *RootOptions, path, section string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": read report", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": parse report", err)
	}

	raw, ok := doc[section]
	if !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%s: no section %q; have: %v", ErrCodeGeneric, section, sectionNames(doc)))
	}

	var pretty any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": parse section", err)
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": marshal section", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func sectionNames(doc map[string]json.RawMessage) []string {
	names := make([]string, 0, len(doc))
	for k := range doc {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
