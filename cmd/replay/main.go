package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/fortuna/quadra/internal/replay"
	"github.com/fortuna/quadra/internal/store"
	"github.com/fortuna/quadra/internal/store/repository"
)

const (
	scriptFlag = "script"
	jsonFlag   = "json"
	recordFlag = "record"
	dsnFlag    = "dsn"
	stdinName  = "-"
)

var version = "v1.0.0"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:    "quadra-replay",
		Usage:   "Replay scripted post-match captures and print their statistics",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Feed a YAML script through a post-match session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     scriptFlag,
						Aliases:  []string{"s"},
						Usage:    "Path to the YAML script, or \"-\" for stdin",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  jsonFlag,
						Usage: "Print JSON instead of YAML",
					},
					&cli.BoolFlag{
						Name:  recordFlag,
						Usage: "Print the full match record instead of the summary",
					},
					&cli.StringFlag{
						Name:    dsnFlag,
						Usage:   "Persist the record to this Postgres database",
						EnvVars: []string{"DATABASE_URL"},
					},
				},
				Action: func(cCtx *cli.Context) error {
					return runScript(cCtx, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func runScript(cCtx *cli.Context, logger *slog.Logger) error {
	in, err := openScript(cCtx.String(scriptFlag))
	if err != nil {
		return err
	}
	defer in.Close()

	script, err := replay.Parse(in)
	if err != nil {
		return err
	}
	res, err := replay.Run(script, nil, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.Info("✓ replayed script", "match_id", script.Match.ID, "events", len(res.Events),
		"goals_for", res.Record.GoalsFor, "goals_against", res.Record.GoalsAgainst)

	if dsn := cCtx.String(dsnFlag); dsn != "" {
		if err := persist(cCtx.Context, dsn, script, res); err != nil {
			return err
		}
		logger.Info("✓ record persisted", "match_id", script.Match.ID)
	}

	var out interface{} = res.Summary
	if cCtx.Bool(recordFlag) {
		out = res.Record
	}
	return write(os.Stdout, out, cCtx.Bool(jsonFlag))
}

func openScript(path string) (io.ReadCloser, error) {
	if path == stdinName {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	return f, nil
}

// persist seeds the team, roster and fixture of the script before saving
// the record, so a replay works against an empty database.
func persist(ctx context.Context, dsn string, script *replay.Script, res *replay.Result) error {
	db, err := store.NewDatabase(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if script.Match.TeamID == "" {
		return fmt.Errorf("persisting match %s: match.teamId is required", script.Match.ID)
	}
	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	info := script.Match
	if info.Date.IsZero() {
		info.Date = res.Record.FinishedAt
	}
	gateway := repository.NewGateway(db)
	if err := gateway.Seed(ctx, info, script.Roster); err != nil {
		return err
	}
	if err := gateway.SaveRecord(ctx, res.Record); err != nil {
		return err
	}
	return gateway.RecordSubstitutions(ctx, res.Record.TeamID, res.Record.SubstitutionHistory)
}

func write(w io.Writer, v interface{}, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	return enc.Close()
}
