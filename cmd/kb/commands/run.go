package commands

import (
	"github.com/ai-kana/kb/internal/app"
	"github.com/spf13/cobra"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-rebuild", false, "Skip the self-rebuild check")
	cmd.Flags().Bool("strict", false, "Fail when a command exits unsuccessfully")
	cmd.Flags().BoolP("dry-run", "n", false, "Print the commands without running them")
	cmd.Flags().IntP("pool-size", "j", 0, "Number of compile workers per pass (overrides the build description)")
	cmd.Flags().String("journal", "", "Record every executed command and its output as a progrock journal in this file")
}

func runOptions(cmd *cobra.Command, args []string) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	noRebuild, _ := cmd.Flags().GetBool("no-rebuild")
	strict, _ := cmd.Flags().GetBool("strict")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	poolSize, _ := cmd.Flags().GetInt("pool-size")
	journal, _ := cmd.Flags().GetString("journal")

	return app.RunOptions{
		ConfigPath: configPath,
		Buffers:    args,
		NoRebuild:  noRebuild,
		Strict:     strict,
		DryRun:     dryRun,
		PoolSize:   poolSize,
		Journal:    journal,
	}
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [buffers...]",
		Short: "Submit the named buffers, or the entry buffer",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), runOptions(cmd, args))
		},
	}
	addRunFlags(cmd)
	return cmd
}
