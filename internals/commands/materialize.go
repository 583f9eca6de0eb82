package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ministryhub_backend/internals/helpers/dbtime"
	routes "ministryhub_backend/internals/route"
)

func newMaterializeCommand() *cobra.Command {
	var (
		church string
		start  string
		end    string
	)
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Create missing meeting instances for a date range",
		Long: "Without --church every church with an active pattern is processed.\n" +
			"Dates are inclusive; --start defaults to today and --end to the configured warm horizon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()

			deps := routes.BuildDeps(rt.db, rt.cfg, nil, rt.log)
			ctx := cmd.Context()

			if church == "" && start == "" && end == "" {
				res, err := deps.Warmer.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "patterns=%d created=%d existing=%d failed=%d\n",
					res.Patterns, res.Created, res.Existing, res.Failed)
				return nil
			}

			from := dbtime.DateOf(time.Now())
			if start != "" {
				if from, err = dbtime.ParseDate(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			to := from.AddDays(rt.cfg.Calendar.WarmHorizonDays)
			if end != "" {
				if to, err = dbtime.ParseDate(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}

			var churches []uuid.UUID
			if church != "" {
				id, err := uuid.Parse(church)
				if err != nil {
					return fmt.Errorf("--church: %w", err)
				}
				churches = []uuid.UUID{id}
			} else if churches, err = deps.MeetingRepo.ListChurchesWithActivePatterns(ctx); err != nil {
				return err
			}

			var failed int
			for _, id := range churches {
				res, err := deps.Materializer.Materialize(ctx, id, from, to)
				fmt.Fprintf(cmd.OutOrStdout(), "church=%s patterns=%d created=%d existing=%d failed=%d\n",
					id, res.Patterns, res.Created, res.Existing, res.Failed)
				if err != nil {
					failed++
					rt.log.Error("materialize failed", zap.String("church_id", id.String()), zap.Error(err))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d churches reported errors", failed, len(churches))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&church, "church", "", "church UUID")
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD")
	return cmd
}
