// Command replay re-runs a recorded session and checks that it ends with
// the recorded score and state.
//
//	replay <file>
//
// The round configuration is the preset named in the recording unless
// GAME_CONFIG points at a YAML file.
package main

import (
	"fmt"
	"os"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/replay"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: replay <file>")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	logger, err := config.NewLogger(os.Stderr, "replay")
	if err != nil {
		return err
	}

	l, err := replay.Load(path)
	if err != nil {
		return err
	}

	var game *config.Game
	if cfgPath := config.GetEnv("GAME_CONFIG", ""); cfgPath != "" {
		game, err = config.Load(cfgPath)
	} else {
		var g config.Game
		g, err = config.Preset(l.Mode)
		game = &g
	}
	if err != nil {
		return err
	}

	logger.Info("verifying", "path", path, "mode", l.Mode, "seed", l.Seed, "entries", len(l.Entries))
	if err := replay.Verify(l, game.Round, round.WithLogger(logger)); err != nil {
		return err
	}
	logger.Info("replay matches", "score", l.Score, "state", l.State)
	return nil
}
