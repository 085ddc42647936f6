// Package stats reduces a captured event log into team totals, per-player
// totals, the passing relationship graph and the final match record.
// Every function here is pure and deterministic.
package stats

import (
	"sort"

	"github.com/fortuna/quadra/internal/match"
)

// Counters is the shared shape of team and player totals.
type Counters struct {
	Goals              int `json:"goals" yaml:"goals"`
	Assists            int `json:"assists" yaml:"assists"`
	PassesCorrect      int `json:"passesCorrect" yaml:"passesCorrect"`
	PassesWrong        int `json:"passesWrong" yaml:"passesWrong"`
	ShotsOnTarget      int `json:"shotsOnTarget" yaml:"shotsOnTarget"`
	ShotsOffTarget     int `json:"shotsOffTarget" yaml:"shotsOffTarget"`
	ShotsPost          int `json:"shotsPost" yaml:"shotsPost"`
	ShotsBlocked       int `json:"shotsBlocked" yaml:"shotsBlocked"`
	TacklesWithBall    int `json:"tacklesWithBall" yaml:"tacklesWithBall"`
	TacklesWithoutBall int `json:"tacklesWithoutBall" yaml:"tacklesWithoutBall"`
	TacklesCounter     int `json:"tacklesCounter" yaml:"tacklesCounter"`
	SavesSimple        int `json:"savesSimple" yaml:"savesSimple"`
	SavesHard          int `json:"savesHard" yaml:"savesHard"`
	BlocksShot         int `json:"blocksShot" yaml:"blocksShot"`
	BlocksPass         int `json:"blocksPass" yaml:"blocksPass"`
	FoulsCommitted     int `json:"foulsCommitted" yaml:"foulsCommitted"`
	YellowCards        int `json:"yellowCards" yaml:"yellowCards"`
	RedCards           int `json:"redCards" yaml:"redCards"`
	Corners            int `json:"corners" yaml:"corners"`
	Laterals           int `json:"laterals" yaml:"laterals"`
	FreeKicks          int `json:"freeKicks" yaml:"freeKicks"`
	Penalties          int `json:"penalties" yaml:"penalties"`
}

// Shots is the total of all shot outcomes.
func (c Counters) Shots() int {
	return c.ShotsOnTarget + c.ShotsOffTarget + c.ShotsPost + c.ShotsBlocked
}

// Tackles is the total of all tackle kinds.
func (c Counters) Tackles() int {
	return c.TacklesWithBall + c.TacklesWithoutBall + c.TacklesCounter
}

// PassAccuracy is the share of correct passes, zero when nothing was passed.
func (c Counters) PassAccuracy() float64 {
	total := c.PassesCorrect + c.PassesWrong
	if total == 0 {
		return 0
	}
	return float64(c.PassesCorrect) / float64(total)
}

// PeriodGoals splits the score of one period.
type PeriodGoals struct {
	For     int `json:"for" yaml:"for"`
	Against int `json:"against" yaml:"against"`
}

// TeamStats are the team-wide totals. Fouls are counted for both sides here;
// players are only charged with the fouls they commit.
type TeamStats struct {
	Counters         `yaml:",inline"`
	GoalsFor         int                          `json:"goalsFor" yaml:"goalsFor"`
	GoalsAgainst     int                          `json:"goalsAgainst" yaml:"goalsAgainst"`
	OwnGoalsFor      int                          `json:"ownGoalsFor" yaml:"ownGoalsFor"`
	FoulsSuffered    int                          `json:"foulsSuffered" yaml:"foulsSuffered"`
	FreeKicksAgainst int                          `json:"freeKicksAgainst" yaml:"freeKicksAgainst"`
	PenaltiesAgainst int                          `json:"penaltiesAgainst" yaml:"penaltiesAgainst"`
	GoalsByPeriod    map[match.Period]PeriodGoals `json:"goalsByPeriod" yaml:"goalsByPeriod"`
}

// PlayerStats are one player's totals.
type PlayerStats struct {
	PlayerID   string `json:"playerId" yaml:"playerId"`
	PlayerName string `json:"playerName,omitempty" yaml:"playerName,omitempty"`
	Counters   `yaml:",inline"`
}

// Summary is the full aggregate of an event log.
type Summary struct {
	Team          TeamStats      `json:"team" yaml:"team"`
	Players       []PlayerStats  `json:"players" yaml:"players"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Aggregate reduces the log. Players are ordered by id.
func Aggregate(events []match.Event) Summary {
	team := TeamStats{GoalsByPeriod: make(map[match.Period]PeriodGoals)}
	players := make(map[string]*PlayerStats)
	player := func(e match.Event) *Counters {
		if e.PlayerID == "" {
			return nil
		}
		p, ok := players[e.PlayerID]
		if !ok {
			p = &PlayerStats{PlayerID: e.PlayerID, PlayerName: e.PlayerName}
			players[e.PlayerID] = p
		}
		return &p.Counters
	}

	for _, e := range events {
		switch pl := e.Payload.(type) {
		case match.PassPayload:
			if pl.Result == match.PassCorrect {
				bump(&team.Counters, player(e), func(c *Counters) { c.PassesCorrect++ })
			} else {
				bump(&team.Counters, player(e), func(c *Counters) { c.PassesWrong++ })
			}
			if pl.IsAssist {
				bump(&team.Counters, player(e), func(c *Counters) { c.Assists++ })
			}
		case match.ShotPayload:
			bump(&team.Counters, player(e), shotCounter(pl.Result))
		case match.FoulPayload:
			if pl.FoulTeam == match.FoulFor {
				bump(&team.Counters, player(e), func(c *Counters) { c.FoulsCommitted++ })
			} else {
				team.FoulsSuffered++
			}
		case match.GoalPayload:
			pg := team.GoalsByPeriod[e.Period]
			switch {
			case pl.IsOpponentGoal:
				team.GoalsAgainst++
				pg.Against++
			case pl.Result == match.GoalContra:
				team.GoalsFor++
				team.OwnGoalsFor++
				pg.For++
			default:
				team.GoalsFor++
				pg.For++
				bump(&team.Counters, player(e), func(c *Counters) { c.Goals++ })
			}
			team.GoalsByPeriod[e.Period] = pg
		case match.CardPayload:
			if pl.CardType == match.CardYellow {
				bump(&team.Counters, player(e), func(c *Counters) { c.YellowCards++ })
			} else {
				bump(&team.Counters, player(e), func(c *Counters) { c.RedCards++ })
			}
		case match.TacklePayload:
			bump(&team.Counters, player(e), tackleCounter(pl.Result))
		case match.SavePayload:
			if pl.Result == match.SaveHard {
				bump(&team.Counters, player(e), func(c *Counters) { c.SavesHard++ })
			} else {
				bump(&team.Counters, player(e), func(c *Counters) { c.SavesSimple++ })
			}
		case match.BlockPayload:
			if pl.Result == match.BlockPass {
				bump(&team.Counters, player(e), func(c *Counters) { c.BlocksPass++ })
			} else {
				bump(&team.Counters, player(e), func(c *Counters) { c.BlocksShot++ })
			}
		case match.CornerPayload:
			bump(&team.Counters, player(e), func(c *Counters) { c.Corners++ })
		case match.LateralPayload:
			bump(&team.Counters, player(e), func(c *Counters) { c.Laterals++ })
		case match.FreeKickPayload:
			if pl.IsForUs {
				bump(&team.Counters, player(e), func(c *Counters) { c.FreeKicks++ })
			} else {
				team.FreeKicksAgainst++
			}
		case match.PenaltyPayload:
			if pl.IsForUs {
				bump(&team.Counters, player(e), func(c *Counters) { c.Penalties++ })
			} else {
				team.PenaltiesAgainst++
			}
		}
	}

	out := Summary{
		Team:          team,
		Players:       make([]PlayerStats, 0, len(players)),
		Relationships: Relationships(events),
	}
	for _, p := range players {
		out.Players = append(out.Players, *p)
	}
	sort.Slice(out.Players, func(i, j int) bool {
		return out.Players[i].PlayerID < out.Players[j].PlayerID
	})
	return out
}

// bump applies f to the team totals and, when the event has an author, to the player.
func bump(team, player *Counters, f func(*Counters)) {
	f(team)
	if player != nil {
		f(player)
	}
}

func shotCounter(r match.ShotResult) func(*Counters) {
	switch r {
	case match.ShotInside:
		return func(c *Counters) { c.ShotsOnTarget++ }
	case match.ShotPost:
		return func(c *Counters) { c.ShotsPost++ }
	case match.ShotBlocked:
		return func(c *Counters) { c.ShotsBlocked++ }
	}
	return func(c *Counters) { c.ShotsOffTarget++ }
}

func tackleCounter(r match.TackleResult) func(*Counters) {
	switch r {
	case match.TackleWithBall:
		return func(c *Counters) { c.TacklesWithBall++ }
	case match.TackleWithoutBall:
		return func(c *Counters) { c.TacklesWithoutBall++ }
	}
	return func(c *Counters) { c.TacklesCounter++ }
}
