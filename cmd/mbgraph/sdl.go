package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tghp/wpgraphql-mb/internal/bridge"
	"github.com/tghp/wpgraphql-mb/internal/schema"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func newSDLCmd(a *app) *cobra.Command {
	var (
		out      string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "sdl",
		Short: "Print the schema of the site as SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := site.Load(a.sitePath)
			if err != nil {
				return fmt.Errorf("load site: %w", err)
			}
			d, err := bridge.Compose(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("build delta: %w", err)
			}
			sch, err := schema.Build(d)
			if err != nil {
				return fmt.Errorf("build schema: %w", err)
			}
			if validate {
				if _, err := schema.Validate(sch); err != nil {
					return fmt.Errorf("validate schema: %w", err)
				}
			}
			sdl := schema.Render(sch)
			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), sdl)
				return err
			}
			return os.WriteFile(out, []byte(sdl), 0644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write SDL to file (default: stdout)")
	cmd.Flags().BoolVar(&validate, "validate", true, "validate the SDL with gqlparser")
	return cmd
}
