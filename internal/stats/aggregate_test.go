package stats

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/fortuna/quadra/internal/match"
)

func ev(id string, at int, period match.Period, player string, p match.Payload) match.Event {
	tipo, subtipo := match.Labels(p)
	return match.Event{ID: id, Time: at, Period: period, PlayerID: player, PlayerName: player,
		Tipo: tipo, Subtipo: subtipo, Payload: p}
}

func sampleLog() []match.Event {
	first, second := match.PeriodFirst, match.PeriodSecond
	return []match.Event{
		ev("1", 10, first, "p1", match.PassPayload{Result: match.PassCorrect, PassToPlayerID: "p2", IsAssist: true}),
		ev("2", 12, first, "p2", match.GoalPayload{Result: match.GoalNormal, GoalMethod: "Ataque"}),
		ev("3", 30, first, "p2", match.PassPayload{Result: match.PassCorrect, PassToPlayerID: "p1"}),
		ev("4", 40, first, "p3", match.PassPayload{Result: match.PassWrong}),
		ev("5", 50, first, "p3", match.ShotPayload{Result: match.ShotInside}),
		ev("6", 55, first, "p3", match.ShotPayload{Result: match.ShotOutside}),
		ev("7", 60, first, "p4", match.FoulPayload{FoulTeam: match.FoulFor}),
		ev("8", 70, first, "p4", match.FoulPayload{FoulTeam: match.FoulAgainst}),
		ev("9", 80, first, "", match.GoalPayload{Result: match.GoalNormal, IsOpponentGoal: true, GoalMethod: "Escanteio"}),
		ev("10", 100, second, "p1", match.TacklePayload{Result: match.TackleWithoutBall}),
		ev("11", 110, second, "gk", match.SavePayload{Result: match.SaveHard}),
		ev("12", 120, second, "p4", match.CardPayload{CardType: match.CardYellow}),
		ev("13", 130, second, "", match.GoalPayload{Result: match.GoalContra, GoalMethod: "Ataque"}),
		ev("14", 140, second, "p3", match.PenaltyPayload{Kick: match.Kick{IsForUs: true, KickerID: "p3", Result: match.KickSaved}}),
		ev("15", 150, second, "", match.FreeKickPayload{Kick: match.Kick{Result: match.KickOutside}}),
	}
}

func TestAggregateTeam(t *testing.T) {
	s := Aggregate(sampleLog())
	team := s.Team

	checks := []struct {
		name      string
		got, want int
	}{
		{"goalsFor", team.GoalsFor, 2},
		{"goalsAgainst", team.GoalsAgainst, 1},
		{"ownGoalsFor", team.OwnGoalsFor, 1},
		{"goals by players", team.Goals, 1},
		{"assists", team.Assists, 1},
		{"passesCorrect", team.PassesCorrect, 2},
		{"passesWrong", team.PassesWrong, 1},
		{"shotsOnTarget", team.ShotsOnTarget, 1},
		{"shotsOffTarget", team.ShotsOffTarget, 1},
		{"shots", team.Shots(), 2},
		{"foulsCommitted", team.FoulsCommitted, 1},
		{"foulsSuffered", team.FoulsSuffered, 1},
		{"tacklesWithoutBall", team.TacklesWithoutBall, 1},
		{"savesHard", team.SavesHard, 1},
		{"yellowCards", team.YellowCards, 1},
		{"penalties", team.Penalties, 1},
		{"freeKicksAgainst", team.FreeKicksAgainst, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	wantPeriods := map[match.Period]PeriodGoals{
		match.PeriodFirst:  {For: 1, Against: 1},
		match.PeriodSecond: {For: 1},
	}
	if !reflect.DeepEqual(team.GoalsByPeriod, wantPeriods) {
		t.Errorf("goalsByPeriod = %v, want %v", team.GoalsByPeriod, wantPeriods)
	}
}

func TestAggregatePlayers(t *testing.T) {
	s := Aggregate(sampleLog())
	byID := make(map[string]PlayerStats)
	var order []string
	for _, p := range s.Players {
		byID[p.PlayerID] = p
		order = append(order, p.PlayerID)
	}
	if want := []string{"gk", "p1", "p2", "p3", "p4"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("player order = %v, want %v", order, want)
	}
	if got := byID["p1"].Assists; got != 1 {
		t.Errorf("p1 assists = %d, want 1", got)
	}
	if got := byID["p2"].Goals; got != 1 {
		t.Errorf("p2 goals = %d, want 1", got)
	}
	if got := byID["p4"].FoulsCommitted; got != 1 {
		t.Errorf("p4 foulsCommitted = %d, want 1 (suffered fouls are team-only)", got)
	}
	if got := byID["p3"].PassAccuracy(); got != 0 {
		t.Errorf("p3 pass accuracy = %v, want 0", got)
	}
}

func TestRelationshipsCanonicalPairs(t *testing.T) {
	rel := Relationships(sampleLog())
	want := []Relationship{{PlayerA: "p1", PlayerB: "p2", Passes: 2, Assists: 1}}
	if !reflect.DeepEqual(rel, want) {
		t.Errorf("relationships = %+v, want %+v", rel, want)
	}
}

func TestCorrectedFieldsOnlyCountWhenActive(t *testing.T) {
	first := match.PeriodFirst
	log := []match.Event{
		ev("1", 10, first, "p1", match.PassPayload{Result: match.PassWrong, PassToPlayerID: "p2", PassToName: "p2"}),
		ev("2", 20, first, "p3", match.PenaltyPayload{Kick: match.Kick{KickerID: "p3", Result: match.KickGoal}}),
	}
	if rel := Relationships(log); len(rel) != 0 {
		t.Errorf("relationships = %+v, want none", rel)
	}
	sum := Aggregate(log)
	if sum.Team.PenaltiesAgainst != 1 || sum.Team.Penalties != 0 {
		t.Errorf("penalties = %d for, %d against", sum.Team.Penalties, sum.Team.PenaltiesAgainst)
	}
	for _, p := range sum.Players {
		if p.PlayerID == "p3" {
			t.Errorf("opponent penalty credited to p3: %+v", p)
		}
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	log := sampleLog()
	a, err := json.Marshal(Aggregate(log))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Aggregate(log))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("aggregate output differs between runs")
	}
}

func TestResultFor(t *testing.T) {
	tests := []struct {
		gf, ga int
		want   Result
	}{
		{3, 1, ResultWin},
		{0, 2, ResultLoss},
		{2, 2, ResultDraw},
	}
	for _, tt := range tests {
		if got := ResultFor(tt.gf, tt.ga); got != tt.want {
			t.Errorf("ResultFor(%d, %d) = %s, want %s", tt.gf, tt.ga, got, tt.want)
		}
	}
}

func TestBuildRecord(t *testing.T) {
	finished := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	rec, err := BuildRecord(RecordInput{
		Match:             match.MatchInfo{ID: "m1", Opponent: "Rival FC", Competition: "Liga"},
		Events:            sampleLog(),
		StartingLineup:    []string{"gk", "p1", "p2", "p3", "p4"},
		PossessionWith:    700,
		PossessionWithout: 500,
		RecordedBy:        Recorder{ID: "u1", Name: "Ana"},
		FinishedAt:        finished,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Result != ResultWin || rec.GoalsFor != 2 || rec.GoalsAgainst != 1 {
		t.Errorf("result = %s %d-%d", rec.Result, rec.GoalsFor, rec.GoalsAgainst)
	}
	if len(rec.PostMatchEventLog) != len(sampleLog()) {
		t.Fatalf("log length = %d", len(rec.PostMatchEventLog))
	}
	first := rec.PostMatchEventLog[0]
	if first.RecordedByUserID != "u1" || first.RecordedByName != "Ana" || first.Type != match.EventPass {
		t.Errorf("first recorded event = %+v", first)
	}
	var pass match.PassPayload
	if err := json.Unmarshal(first.Payload, &pass); err != nil {
		t.Fatal(err)
	}
	if !pass.IsAssist || pass.PassToPlayerID != "p2" {
		t.Errorf("payload = %+v", pass)
	}
	if rec.PossessionSecondsWith != 700 || rec.PossessionSecondsWithout != 500 {
		t.Errorf("possession = %d/%d", rec.PossessionSecondsWith, rec.PossessionSecondsWithout)
	}
}
