package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/colony/colony"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type runFlags struct {
	config colony.Config

	ticks       int
	pawns       int
	farms       int
	houses      int
	reportEvery int

	load    string
	save    string
	profile string
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	flags := runFlags{config: colony.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a colony for a number of ticks",
		Long: `The run command simulates a colony without a window. It either
populates a new world or continues a saved one.

Example:
  colony run --ticks 2000 --pawns 200 --save colony.sav
  colony run --load colony.sav --ticks 500 --profile cpu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.ticks, "ticks", 1000, "Number of ticks to simulate")
	f.IntVar(&flags.pawns, "pawns", 100, "Number of pawns in a new world")
	f.IntVar(&flags.farms, "farms", 8, "Number of farms in a new world")
	f.IntVar(&flags.houses, "houses", 16, "Number of houses in a new world")
	f.IntVar(&flags.reportEvery, "report-every", 100, "Log a summary every n ticks, 0 to disable")
	f.IntVar(&flags.config.PawnCapacity, "pawn-capacity", flags.config.PawnCapacity, "Maximum number of pawns")
	f.IntVar(&flags.config.BuildingCapacity, "building-capacity", flags.config.BuildingCapacity, "Maximum number of buildings")
	f.Uint64Var(&flags.config.Seed, "seed", flags.config.Seed, "Seed for placing pawns and buildings")
	f.Float64Var(&flags.config.HungerPerSec, "hunger", flags.config.HungerPerSec, "Hunger gained per second")
	f.Float64Var(&flags.config.DecayPerSec, "decay", flags.config.DecayPerSec, "Building durability lost per second")
	f.StringVar(&flags.load, "load", "", "Continue the simulation from this save file")
	f.StringVar(&flags.save, "save", "", "Write the final state to this save file")
	f.StringVar(&flags.profile, "profile", "", "Write a profile, cpu or mem")

	return cmd
}

func runSimulation(flags runFlags) error {
	switch flags.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("invalid profile %q", flags.profile)
	}

	world, err := openWorld(flags)
	if err != nil {
		return err
	}

	for tick := 1; tick <= flags.ticks; tick++ {
		world.Tick()

		if flags.reportEvery > 0 && tick%flags.reportEvery == 0 {
			slog.Info("Progress",
				slog.Any("summary", world.Summary()),
				slog.Duration("avgTick", world.Stats().Tick.MovingAverage))
		}
	}

	stats := world.Stats()
	for _, phase := range stats.PhaseOrder {
		timings := stats.ByPhase[phase]
		slog.Debug("Phase timings",
			slog.String("phase", phase),
			slog.Duration("avg", timings.MovingAverage),
			slog.Duration("max", timings.Max))
	}

	slog.Info("Simulation finished", slog.Any("summary", world.Summary()))

	if flags.save != "" {
		return saveWorld(world, flags.save)
	}

	return nil
}

func openWorld(flags runFlags) (*colony.World, error) {
	if flags.load != "" {
		return loadWorld(flags.load)
	}

	if err := flags.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := colony.NewWorld(flags.config)
	if err := world.Populate(flags.pawns, flags.farms, flags.houses); err != nil {
		return nil, fmt.Errorf("populate world: %w", err)
	}

	return world, nil
}

func loadWorld(path string) (*colony.World, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}

	defer fp.Close()

	return colony.Load(fp)
}

func saveWorld(world *colony.World, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}

	if err := world.Save(fp); err != nil {
		_ = fp.Close()
		return err
	}

	return fp.Close()
}
