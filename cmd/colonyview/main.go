package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/oliverbestmann/colony/colony"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	config := colony.DefaultConfig()

	var load, save string
	var pawns, farms, houses int

	cmd := &cobra.Command{
		Use:   "colonyview",
		Short: "Watch a colony simulation in a window",
		Long: `colonyview opens a window and runs the colony simulation in real time.

Keys:
  space        pause or resume
  s            write the save file given by --save
  left click   spawn a pawn at the cursor
  right click  demolish the building closest to the cursor`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var world *colony.World

			if load != "" {
				fp, err := os.Open(load)
				if err != nil {
					return fmt.Errorf("failed to open save file: %w", err)
				}

				world, err = colony.Load(fp)
				_ = fp.Close()

				if err != nil {
					return err
				}
			} else {
				world = colony.NewWorld(config)
				if err := world.Populate(pawns, farms, houses); err != nil {
					return err
				}
			}

			cfg := world.Config()

			ebiten.SetWindowTitle("Colony")
			ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
			ebiten.SetTPS(int(1 / cfg.TickSecs))

			slog.Info("Starting viewer", slog.Any("summary", world.Summary()))

			return ebiten.RunGame(&game{World: world, savePath: save})
		},
	}

	f := cmd.Flags()
	f.StringVar(&load, "load", "", "Show the world from this save file")
	f.StringVar(&save, "save", "", "Save file written when pressing s")
	f.IntVar(&pawns, "pawns", 60, "Number of pawns in a new world")
	f.IntVar(&farms, "farms", 5, "Number of farms in a new world")
	f.IntVar(&houses, "houses", 10, "Number of houses in a new world")
	f.Uint64Var(&config.Seed, "seed", config.Seed, "Seed for placing pawns and buildings")

	return cmd
}
