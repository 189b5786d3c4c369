package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/lightning/pkg/scene"
)

// newCheckCmd creates the check command, which evaluates and validates a
// scene without generating trees.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scene>",
		Short: "Validate a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := scene.ValidateAll(s)
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintln(out, e.Error())
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(out, w.Error())
			}
			if !res.OK() {
				return res.Err()
			}
			fmt.Fprintf(out, "%s: %d layers, ok\n", s.Name, s.LayerCount())
			return nil
		},
	}
}
