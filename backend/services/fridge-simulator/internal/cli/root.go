package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fridgewatch/backend/libs/httpclient"
	"fridgewatch/backend/libs/logging"
	"fridgewatch/backend/services/fridge-simulator/internal/simulator"
)

// URLEnv provides the default for --url.
const URLEnv = "FRIDGE_INGEST_URL"

// NewRootCmd builds the fridge-simulator command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fridge-simulator",
		Short: "Synthetic fridge telemetry for load testing",
		Long: `fridge-simulator posts random temperature and humidity readings to the
fridge-monitor ingestion endpoint. It is a load-testing aid, not part of the service.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cfg := simulator.DefaultConfig()
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send readings until the duration elapses",
		Long: `Send readings for every simulated fridge until the duration elapses.

Examples:
  fridge-simulator run --url http://localhost:8080/fridge-reading
  fridge-simulator run --fridges 5 --duration 5m --interval 2s --faulty=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewLogger("fridge-simulator")
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := httpclient.New("", httpclient.NewDefaultHTTPClient(timeout))
			sim := simulator.New(cfg, client, nil, logger)

			summary, err := sim.Run(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("sent=%d failed=%d\n", summary.Sent, summary.Failed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.URL, "url", os.Getenv(URLEnv), "ingestion endpoint URL (env "+URLEnv+")")
	flags.IntVar(&cfg.Fridges, "fridges", cfg.Fridges, "number of healthy fridges, numbered from 0")
	flags.DurationVar(&cfg.Duration, "duration", cfg.Duration, "total run time")
	flags.DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between readings of a healthy fridge")
	flags.BoolVar(&cfg.Faulty, "faulty", cfg.Faulty, "also simulate a fridge running above the temperature threshold")
	flags.Int64Var(&cfg.FaultyFridge, "faulty-fridge", cfg.FaultyFridge, "fridge number of the faulty unit")
	flags.DurationVar(&cfg.FaultyDelay, "faulty-delay", cfg.FaultyDelay, "wait before the faulty fridge starts sending")
	flags.DurationVar(&cfg.FaultyInterval, "faulty-interval", cfg.FaultyInterval, "time between readings of the faulty fridge")
	flags.DurationVar(&timeout, "timeout", 5*time.Second, "per-request HTTP timeout")

	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
