package simulate

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/cmd/util"
	"github.com/mpapenbr/f1-visual-simulator/pkg/config"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/race"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
)

type overrides struct {
	laps      int
	rivals    int
	trackTemp float64
	tyre      string
	track     string
	weather   string
}

func NewSimulateCmd() *cobra.Command {
	o := overrides{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "runs a complete race without delay and prints the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := util.SetupLogger(); err != nil {
				return err
			}
			cfg, err := config.LoadRaceConfig(config.RaceConfigFile)
			if err != nil {
				return err
			}
			if cfg, err = o.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), cfg, config.Seed)
		},
	}
	cmd.Flags().IntVar(&o.laps, "laps", 0, "number of laps")
	cmd.Flags().IntVar(&o.rivals, "rivals", 0, "number of rivals")
	cmd.Flags().Float64Var(&o.trackTemp, "track-temp", 0, "track temperature in celsius")
	cmd.Flags().StringVar(&o.tyre, "tyre", "", "starting tyre of the player")
	cmd.Flags().StringVar(&o.track, "track", "", "track type")
	cmd.Flags().StringVar(&o.weather, "weather", "", "weather (dry, wet)")
	return cmd
}

// apply sets the values of all flags given on the command line
func (o overrides) apply(flags *pflag.FlagSet, cfg model.RaceConfig) (model.RaceConfig, error) {
	var err error
	if flags.Changed("laps") {
		cfg.TotalLaps = o.laps
	}
	if flags.Changed("rivals") {
		cfg.NumRivals = o.rivals
	}
	if flags.Changed("track-temp") {
		cfg.TrackTemp = o.trackTemp
	}
	if flags.Changed("tyre") {
		if cfg.StartingTyre, err = model.ParseTyreCompound(o.tyre); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("track") {
		if cfg.TrackType, err = model.ParseTrackType(o.track); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("weather") {
		cfg.Weather = model.Weather(o.weather)
	}
	return cfg, cfg.Validate()
}

// simulate runs a race to the end. A seed of 0 uses a random seed.
func simulate(ctx context.Context, out io.Writer, cfg model.RaceConfig, seed int64) error {
	src := sim.NewRandom()
	if seed != 0 {
		src = sim.NewSeeded(uint64(seed))
	}
	ctrl := race.NewController(race.WithRandom(src))
	if _, err := ctrl.Start(cfg); err != nil {
		return err
	}
	laps := race.NewRunner(ctrl).RunToFinish(ctx)
	snap := ctrl.Snapshot()
	log.Debug("simulation done", log.Int("laps", laps), log.String("phase", string(snap.Phase)))
	if snap.Phase != race.PhaseFinished {
		return fmt.Errorf("race stopped at lap %d: %w", snap.Lap, ctx.Err())
	}
	return printResult(out, &snap)
}

func printResult(out io.Writer, snap *race.Snapshot) error {
	fmt.Fprintf(out, "%s, %d laps, %s, %s, %.0f°C\n\n",
		snap.Config.TrackType.Spec().Name,
		snap.Lap,
		snap.Config.Weather,
		snap.Config.StartingTyre.Spec().Name,
		snap.Config.TrackTemp)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pos\tDriver\tTotal\tLast lap\tTyre\tLife\tStops\t")
	for i := range snap.Standings {
		c := &snap.Standings[i]
		name := c.Name
		if c.IsPlayer {
			name += " *"
		}
		fmt.Fprintf(tw, "P%d\t%s\t%.3f\t%.3f\t%s\t%.0f%%\t%d\t\n",
			c.Position, name, c.TotalTime, c.LapTime, c.Tyre.Spec().Name, c.TyreLife, c.PitStops)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nEvents:")
	for _, e := range snap.Events {
		fmt.Fprintf(out, "  Lap %3d  %s\n", e.Lap, e.Message)
	}
	return nil
}
