package commands

import "github.com/spf13/cobra"

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [buffers...]",
		Short: "Submit the buffers again whenever a file changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), runOptions(cmd, args))
		},
	}
	addRunFlags(cmd)
	return cmd
}
