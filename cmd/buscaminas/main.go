package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"minesweeper-backend/internal/config"
	"minesweeper-backend/internal/game"
	"minesweeper-backend/internal/models"
	"minesweeper-backend/internal/render"
	"minesweeper-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	app := cli.NewApp()
	app.Name = "buscaminas"
	app.Usage = "play minesweeper in the terminal"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "name, n", Usage: "player name; prompted for when empty"},
		cli.StringFlag{Name: "difficulty, d", Usage: "easy, medium, hard or 1-3; prompted for when empty"},
		cli.Uint64Flag{Name: "seed", Usage: "replay the mine layout of a seeded round"},
		cli.StringFlag{Name: "score-file", Usage: "append results to this file instead of SCORE_FILE"},
		cli.BoolFlag{Name: "skip-tutorial", Usage: "do not show the rules before playing"},
	}
	app.Action = func(c *cli.Context) error {
		return quitOnEOF(run(c), os.Stdout)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		return err
	}
	if path := c.String("score-file"); path != "" {
		cfg.ScoreFile = path
	}

	in := bufio.NewScanner(os.Stdin)
	out := os.Stdout
	r := render.NewRenderer(out)

	if !c.Bool("skip-tutorial") {
		fmt.Fprint(out, render.Tutorial)
		if _, err := ask(in, out, "\nPress Enter to continue..."); err != nil {
			return err
		}
	}

	player := c.String("name")
	for {
		name, err := models.NormalizePlayerName(player)
		if err == nil {
			player = name
			break
		}
		if player != "" {
			fmt.Fprintln(out, r.Warning(err.Error()))
		}
		if player, err = ask(in, out, "Please enter your name: "); err != nil {
			return err
		}
	}

	profile, err := chooseProfile(c.String("difficulty"), in, out, r)
	if err != nil {
		return err
	}

	opts := []game.Option{}
	if c.IsSet("seed") {
		opts = append(opts, game.WithSeed(c.Uint64("seed")))
	}
	session, err := game.NewSession(profile, player, opts...)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"player":     player,
		"difficulty": profile.Name,
		"seed":       session.Seed(),
	}).Debug("round started")

	if err := play(session, in, out, r); err != nil {
		return err
	}

	result := models.NewGameResult(models.GenerateGameID(), session.Result())
	scoreLog := services.NewScoreLog(cfg.ScoreFile)
	if err := scoreLog.RecordResult(context.Background(), result); err != nil {
		log.WithError(err).Error("failed to save score")
		return nil
	}
	fmt.Fprintf(out, "Score saved to %s (seed %d).\n", scoreLog.Path(), result.Seed)
	return nil
}

func chooseProfile(choice string, in *bufio.Scanner, out io.Writer, r *render.Renderer) (game.Profile, error) {
	if choice != "" {
		return game.LookupProfile(choice)
	}

	fmt.Fprint(out, render.DifficultyMenu(game.Profiles()))
	for {
		line, err := ask(in, out, "Enter 1, 2 or 3: ")
		if err != nil {
			return game.Profile{}, err
		}
		if profile, err := game.LookupProfile(line); err == nil {
			return profile, nil
		}
		fmt.Fprintln(out, r.Warning("Invalid choice. Please enter 1, 2 or 3."))
	}
}

func play(session *game.Session, in *bufio.Scanner, out io.Writer, r *render.Renderer) error {
	for !session.State().Terminal() {
		fmt.Fprint(out, r.Board(session.View(false)))
		fmt.Fprintln(out, r.Status(session))

		line, err := ask(in, out, render.Prompt)
		if err != nil {
			return err
		}

		cmd, err := render.ParseCommand(line)
		if err == nil {
			if cmd.Flag {
				_, err = session.ToggleFlag(cmd.Row, cmd.Col)
			} else {
				_, err = session.Reveal(cmd.Row, cmd.Col)
			}
		}
		if err != nil {
			fmt.Fprintln(out, r.Warning(render.RejectionMessage(err)))
		}
	}

	fmt.Fprint(out, r.Board(session.View(true)))
	fmt.Fprint(out, r.Summary(session.Result()))
	return nil
}

// quitOnEOF treats closed input as the player leaving.
func quitOnEOF(err error, out io.Writer) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out, "\nGoodbye!")
		return nil
	}
	return err
}

func ask(in *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(in.Text()), nil
}
