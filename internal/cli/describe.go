package cli

import (
	"fmt"
	"sort"

	"mbti-quiz-service/internal/content"

	"github.com/spf13/cobra"
)

// NewDescribeCmd prints the description of a type, or lists the known types.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [TYPE]",
		Short: "Describe one of the sixteen types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := content.Default()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				labels := lib.Labels()
				sort.Strings(labels)
				for _, label := range labels {
					d, _ := lib.Lookup(label)
					fmt.Fprintf(out, "%s  %s\n", label, d.Title)
				}
				return nil
			}
			d, ok := lib.Lookup(args[0])
			if !ok {
				return fmt.Errorf("no description for type %q", args[0])
			}
			printDescription(out, d)
			return nil
		},
	}
}
