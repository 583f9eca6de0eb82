package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/configs"
	database "ministryhub_backend/internals/databases"
)

var configPath string

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ministryhub",
		Short:         "Church calendar backend: meetings, recurring patterns, team rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (env vars override it)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newMaterializeCommand(),
	)
	return root
}

// runtime is what every command needs before doing its work.
type runtime struct {
	cfg *configs.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(withDB bool) (*runtime, error) {
	configs.LoadEnv()

	cfg, err := configs.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := configs.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	rt := &runtime{cfg: cfg, log: log}
	if !withDB {
		return rt, nil
	}

	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.TunePool(db, cfg.Database); err != nil {
		database.Close(db)
		return nil, err
	}
	rt.db = db
	return rt, nil
}

func (rt *runtime) close() {
	if rt.db != nil {
		database.Close(rt.db)
	}
	_ = rt.log.Sync()
}
