package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/loop"
	"github.com/Samster1523/ColorShooter2/internal/replay"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the game, so logs only go to LOG_FILE.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := config.NewLogger(logOut, "game")
	if err != nil {
		return err
	}

	game, err := config.FromEnv()
	if err != nil {
		return err
	}
	replayPath := config.GetEnv("REPLAY_PATH", "")
	seed, err := config.GetEnvInt64("GAME_SEED", 0)
	if err != nil {
		return err
	}

	session, err := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.SessionOptions{
		Game:   *game,
		Seed:   seed,
		Record: replayPath != "",
		Logger: logger,
	})
	if err != nil {
		return err
	}
	logger.Info("starting", "mode", game.Mode, "replay", replayPath)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	runErr := session.Run()
	_ = term.Restore(fd, oldState)
	if runErr != nil {
		return runErr
	}

	if replayPath != "" {
		if err := replay.Save(replayPath, session.ReplayLog()); err != nil {
			return fmt.Errorf("save replay: %w", err)
		}
		logger.Info("replay saved", "path", replayPath, "score", session.Controller().Score())
	}
	return nil
}
