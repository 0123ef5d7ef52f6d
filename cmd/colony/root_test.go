package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/oliverbestmann/colony/colony"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("json", "debug")
	require.NoError(t, err)
	require.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger, err = newLogger("TEXT", "warn")
	require.NoError(t, err)
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))

	_, err = newLogger("xml", "info")
	require.Error(t, err)

	_, err = newLogger("text", "loud")
	require.Error(t, err)
}

func TestRunAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.sav")

	flags := runFlags{
		config: colony.DefaultConfig(),
		ticks:  20,
		pawns:  10,
		farms:  2,
		houses: 2,
		save:   path,
	}

	require.NoError(t, runSimulation(flags))

	_, err := os.Stat(path)
	require.NoError(t, err)

	world, err := loadWorld(path)
	require.NoError(t, err)
	require.Equal(t, uint64(20), world.TickCount())

	var out bytes.Buffer
	printWorld(&out, world)
	require.Contains(t, out.String(), "Tick 20")
	require.Contains(t, out.String(), "Pawns:")

	out.Reset()
	require.NoError(t, printJSON(&out, world))
	require.Contains(t, out.String(), `"summary"`)
	require.Contains(t, out.String(), `"pawns"`)

	t.Run("continue from save", func(t *testing.T) {
		flags := runFlags{ticks: 5, load: path, save: path}
		require.NoError(t, runSimulation(flags))

		world, err := loadWorld(path)
		require.NoError(t, err)
		require.Equal(t, uint64(25), world.TickCount())
	})

	t.Run("invalid profile", func(t *testing.T) {
		require.Error(t, runSimulation(runFlags{profile: "gpu"}))
	})
}
