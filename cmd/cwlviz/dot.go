package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dotCmd)
}

var dotCmd = &cobra.Command{
	Use:   "dot <workflow>",
	Short: "Emit the workflow diagram as Graphviz DOT text",
	Long: `Emit the workflow diagram as Graphviz DOT text on standard output.

Example:
  cwlviz dot workflow.cwl | dot -Tpng -o workflow.png`,
	Args: cobra.ExactArgs(1),
	RunE: runDot,
}

func runDot(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	v, closer, err := newViewer(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}
	defer closer()

	fmt.Fprint(cmd.OutOrStdout(), v.DOT())
	return nil
}
