package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var openapi string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the form names found in the definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.loadDocument(cmd.Context(), openapi)
			if err != nil {
				return err
			}
			for _, name := range doc.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&openapi, "openapi", "", "list the forms of an OpenAPI document")
	return cmd
}
