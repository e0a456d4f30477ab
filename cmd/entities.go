package cmd

import (
	"fmt"
	"io"
	"p6export/p6"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var entitiesVerbose bool

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List exportable entity types, their services and columns.",
	Long: `List every entity type p6export can read, the P6 service path it is read from,
the artifact name it is written to and, with --columns, the exported columns.

Columns marked with * may be absent in P6 and are then written as empty cells.`,
	Example: `
  # List entity types
  p6export entities

  # Include columns
  p6export entities --columns
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printEntities(cmd.OutOrStdout(), p6.Describe(), entitiesVerbose)
	},
}

func printEntities(out io.Writer, descriptors []p6.Descriptor, withColumns bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tSERVICE PATH\tOPERATION\tARTIFACT")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Kind, d.Path, d.Operation, d.Artifact)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !withColumns {
		return nil
	}

	for _, d := range descriptors {
		optional := make(map[string]bool, len(d.Optional))
		for _, header := range d.Optional {
			optional[header] = true
		}
		columns := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			columns[i] = header
			if optional[header] {
				columns[i] += "*"
			}
		}
		fmt.Fprintf(out, "\n%s: %s\n", d.Artifact, strings.Join(columns, ", "))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
	entitiesCmd.Flags().BoolVar(&entitiesVerbose, "columns", false, "Also list the exported columns per entity type")
}
