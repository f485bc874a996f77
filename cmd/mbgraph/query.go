package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tghp/wpgraphql-mb/internal/engine"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		vars      string
		operation string
		pretty    bool
	)
	cmd := &cobra.Command{
		Use:   "query <document>",
		Short: "Run one GraphQL operation against the site and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variables := map[string]any{}
			if vars != "" {
				if err := json.Unmarshal([]byte(vars), &variables); err != nil {
					return fmt.Errorf("invalid --vars JSON: %w", err)
				}
			}
			s, err := site.Load(a.sitePath)
			if err != nil {
				return fmt.Errorf("load site: %w", err)
			}
			sch, err := engine.Build(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("build schema: %w", err)
			}
			res := engine.New(sch).Execute(cmd.Context(), engine.Request{
				Query:         args[0],
				OperationName: operation,
				Variables:     variables,
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("query returned %d error(s)", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vars, "vars", "", "variables as a JSON object")
	cmd.Flags().StringVar(&operation, "operation", "", "operation to run when the document has several")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON result")
	return cmd
}
