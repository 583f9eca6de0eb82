package commands

import (
	"github.com/spf13/cobra"

	"ministryhub_backend/internals/seeds"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixture.yaml...]",
		Short: "Load YAML fixtures (members, instruments, playlists, meetings with patterns)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()
			return seeds.RunAllSeeds(rt.db, rt.log, args...)
		},
	}
}
