package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slotwise/internal/oracle/application"
	oraclePersistence "github.com/felixgeelhaar/slotwise/internal/oracle/infrastructure/persistence"
	worldPersistence "github.com/felixgeelhaar/slotwise/internal/world/infrastructure/persistence"
	"github.com/felixgeelhaar/slotwise/pkg/config"
)

var oracleFlags struct {
	tier      int
	world     string
	instances string
	output    string
	archive   string
	workers   int
}

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Run the scheduling oracle over an instance stream",
	Long: `Reads a world document and a line-delimited instance stream, runs the
oracle pipeline for the selected tier, and appends one result document per
accepted instance to the output stream. Inadmissible instances are dropped
without a result.`,
	RunE: runOracle,
}

func init() {
	oracleCmd.Flags().IntVarP(&oracleFlags.tier, "tier", "t", 0, "difficulty tier (1, 2, or 3)")
	oracleCmd.Flags().StringVarP(&oracleFlags.world, "world", "w", "", "world document path")
	oracleCmd.Flags().StringVarP(&oracleFlags.instances, "instances", "i", "", "instances JSONL path")
	oracleCmd.Flags().StringVarP(&oracleFlags.output, "output", "o", "", "results JSONL path (default: stdout)")
	oracleCmd.Flags().StringVar(&oracleFlags.archive, "archive", "", "optional SQLite result archive path")
	oracleCmd.Flags().IntVar(&oracleFlags.workers, "workers", 0, "worker goroutines for the batch (default 1)")
	rootCmd.AddCommand(oracleCmd)
}

func runOracle(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOracleFlags(cfg)

	if cfg.WorldPath == "" {
		return fmt.Errorf("a world document is required (--world or SLOTWISE_WORLD)")
	}
	if cfg.InstancesPath == "" {
		return fmt.Errorf("an instance stream is required (--instances or SLOTWISE_INSTANCES)")
	}

	ctx := cmd.Context()

	world, err := worldPersistence.LoadWorld(cfg.WorldPath)
	if err != nil {
		return err
	}
	instances, err := oraclePersistence.ReadInstancesFile(cfg.InstancesPath)
	if err != nil {
		return err
	}

	logger.Info("oracle batch start",
		"tier", cfg.Tier,
		"timezone", world.Timezone,
		"instances", len(instances),
		"workers", cfg.Workers,
	)

	pipeline := application.NewPipeline(application.Tier(cfg.Tier))
	runner := application.NewRunner(pipeline, logger, cfg.Workers)

	results, summary, err := runner.Run(ctx, world, instances)
	if err != nil {
		return err
	}

	if cfg.OutputPath == "" {
		if err := oraclePersistence.WriteResults(os.Stdout, results); err != nil {
			return err
		}
	} else if err := oraclePersistence.WriteResultsFile(cfg.OutputPath, results); err != nil {
		return err
	}

	if cfg.ArchivePath != "" {
		archive, err := oraclePersistence.OpenResultArchive(ctx, cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer archive.Close()
		if err := archive.Store(ctx, results); err != nil {
			return err
		}
	}

	logger.Info("oracle batch done",
		"processed", summary.Processed,
		"accepted", summary.Accepted,
		"discarded", summary.Discarded,
	)
	return nil
}

// applyOracleFlags lets explicitly set flags override the environment.
func applyOracleFlags(cfg *config.Config) {
	if oracleFlags.tier != 0 {
		cfg.Tier = oracleFlags.tier
	}
	if oracleFlags.world != "" {
		cfg.WorldPath = oracleFlags.world
	}
	if oracleFlags.instances != "" {
		cfg.InstancesPath = oracleFlags.instances
	}
	if oracleFlags.output != "" {
		cfg.OutputPath = oracleFlags.output
	}
	if oracleFlags.archive != "" {
		cfg.ArchivePath = oracleFlags.archive
	}
	if oracleFlags.workers != 0 {
		cfg.Workers = oracleFlags.workers
	}
}
