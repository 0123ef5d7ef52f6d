package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/oliverbestmann/colony/colony"
	"github.com/oliverbestmann/colony/memkeep"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInspectCmd())
}

func newInspectCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <save>",
		Short: "Print the content of a save file",
		Long: `The inspect command loads a save file and lists every live pawn
and building together with its id.

Example:
  colony inspect colony.sav
  colony inspect colony.sav --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := loadWorld(args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), world)
			}

			printWorld(cmd.OutOrStdout(), world)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	return cmd
}

func printJSON(out io.Writer, world *colony.World) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(struct {
		Summary   colony.Summary                   `json:"summary"`
		Pawns     *memkeep.MemKeep[colony.Pawn]     `json:"pawns"`
		Buildings *memkeep.MemKeep[colony.Building] `json:"buildings"`
	}{
		Summary:   world.Summary(),
		Pawns:     world.Pawns,
		Buildings: world.Buildings,
	})
}

func printWorld(out io.Writer, world *colony.World) {
	summary := world.Summary()

	fmt.Fprintf(out, "Tick %d\n", summary.Tick)
	fmt.Fprintf(out, "  Pawns:     %d/%d (%d homeless, %d jobless, hunger %.2f)\n",
		summary.Pawns, world.Pawns.Cap(), summary.Homeless, summary.Jobless, summary.AvgHunger)
	fmt.Fprintf(out, "  Buildings: %d/%d (%d houses, %d farms, %.1f food)\n",
		summary.Houses+summary.Farms, world.Buildings.Cap(), summary.Houses, summary.Farms, summary.Food)

	fmt.Fprintf(out, "\nBuildings:\n")
	for id, building := range world.Buildings.Enumerate() {
		fmt.Fprintf(out, "  %-8s %-5s pos=(%.0f, %.0f) durability=%.2f food=%.1f members=%d\n",
			id, building.Kind, building.Pos.X, building.Pos.Y,
			building.Durability, building.Food, building.Residents.Len()+building.Workers.Len())
	}

	fmt.Fprintf(out, "\nPawns:\n")
	for id, pawn := range world.Pawns.Enumerate() {
		fmt.Fprintf(out, "  %-8s %-12s home=%-8s work=%-8s hunger=%.2f\n",
			id, pawn.Name, refString(world, pawn.Home), refString(world, pawn.Work), pawn.Hunger)
	}
}

// refString prints a building reference, marking stale ones.
func refString(world *colony.World, id memkeep.Id) string {
	if !id.IsValid() {
		return "-"
	}

	if _, ok := world.Buildings.Get(id); !ok {
		return id.String() + "!"
	}

	return id.String()
}

