// Package replay feeds a scripted post-match capture through a session and
// produces the resulting statistics.
package replay

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/stats"
)

// Script is the YAML description of a capture session.
type Script struct {
	Match      match.MatchInfo  `yaml:"match"`
	Roster     []match.Player   `yaml:"roster"`
	Lineup     []string         `yaml:"lineup"`
	Possession match.Possession `yaml:"possession"`
	RecordedBy string           `yaml:"recordedBy"`
	Steps      []Step           `yaml:"steps"`
}

// Step sets the manual time and period, then applies its lineup changes and inputs in order.
type Step struct {
	Time       string            `yaml:"time,omitempty"`
	Period     string            `yaml:"period,omitempty"`
	Substitute *Substitution     `yaml:"substitute,omitempty"`
	Goalkeeper string            `yaml:"goalkeeper,omitempty"`
	Fill       string            `yaml:"fill,omitempty"`
	Delete     string            `yaml:"delete,omitempty"`
	Inputs     []match.InputSpec `yaml:"inputs,omitempty"`
}

// Substitution swaps two players.
type Substitution struct {
	Out string `yaml:"out"`
	In  string `yaml:"in"`
}

// Parse decodes a script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	return &s, nil
}

// Result is the outcome of a replay.
type Result struct {
	Summary stats.Summary
	Record  stats.MatchRecord
	Events  []match.Event
}

// Run replays the script. ids generates event ids and may be nil.
func Run(s *Script, ids func() string, finishedAt time.Time) (*Result, error) {
	opts := []match.Option{}
	if ids != nil {
		opts = append(opts, match.WithIDGenerator(ids))
	}
	cfg := match.DefaultSessionConfig()
	cfg.Mode = match.ModePostMatch

	session, err := match.NewSession(cfg, s.Match, s.Roster, opts...)
	if err != nil {
		return nil, err
	}
	possession := s.Possession
	if err := session.ConfirmLineup(s.Lineup, &possession); err != nil {
		return nil, fmt.Errorf("lineup: %w", err)
	}

	for i, step := range s.Steps {
		if err := apply(session, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if err := session.EndMatch(); err != nil {
		return nil, err
	}

	lineup := session.Lineup()
	events := session.Events()
	rec, err := stats.BuildRecord(stats.RecordInput{
		Match:          s.Match,
		Events:         events,
		StartingLineup: lineup.Starting,
		Substitutions:  lineup.Substitutions,
		RecordedBy:     stats.Recorder{Name: s.RecordedBy},
		FinishedAt:     finishedAt,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Summary: stats.Aggregate(events), Record: rec, Events: events}, nil
}

func apply(s *match.Session, step Step) error {
	if step.Period != "" {
		p, err := match.ParsePeriod(step.Period)
		if err != nil {
			return err
		}
		if err := s.SetManualPeriod(p); err != nil {
			return err
		}
	}
	if step.Time != "" {
		if err := s.SetManualTime(step.Time); err != nil {
			return err
		}
	}
	if sub := step.Substitute; sub != nil {
		if err := s.Substitute(sub.Out, sub.In); err != nil {
			return err
		}
	}
	if step.Goalkeeper != "" {
		if err := s.SetGoalkeeper(step.Goalkeeper); err != nil {
			return err
		}
	}
	if step.Fill != "" {
		if err := s.FillExpulsion(step.Fill); err != nil {
			return err
		}
	}
	if step.Delete != "" {
		if err := s.DeleteEvent(step.Delete); err != nil {
			return err
		}
	}
	for _, spec := range step.Inputs {
		in, err := spec.Input()
		if err != nil {
			return err
		}
		if _, err := s.Dispatch(in); err != nil {
			return fmt.Errorf("%s: %w", spec.Kind, err)
		}
	}
	return nil
}
