package match

import (
	"errors"
	"testing"
)

func rosterByID() map[string]Player {
	m := make(map[string]Player, len(testRoster))
	for _, p := range testRoster {
		m[p.ID] = p
	}
	return m
}

func TestValidateLineup(t *testing.T) {
	with := WithPossession
	tests := []struct {
		name       string
		ids        []string
		possession *Possession
		wantErr    bool
	}{
		{"valid", startingFive, &with, false},
		{"no goalkeeper", []string{"p1", "p2", "p3", "p4", "b1"}, &with, false},
		{"four players", []string{"gk", "p1", "p2", "p3"}, &with, true},
		{"six players", []string{"gk", "p1", "p2", "p3", "p4", "b1"}, &with, true},
		{"two goalkeepers", []string{"gk", "gk2", "p1", "p2", "p3"}, &with, true},
		{"duplicate", []string{"gk", "p1", "p1", "p2", "p3"}, &with, true},
		{"unknown player", []string{"gk", "p1", "p2", "p3", "zz"}, &with, true},
		{"no possession", startingFive, nil, true},
	}
	roster := rosterByID()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineup(tt.ids, roster, tt.possession)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLineup() err = %v, wantErr %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if err != nil && !errors.As(err, &verr) {
				t.Errorf("err %T is not a ValidationError", err)
			}
		})
	}
}

func TestConfirmLineupOnlyOnce(t *testing.T) {
	h := startedHarness(t)
	with := WithPossession
	if err := h.s.ConfirmLineup(startingFive, &with); !errors.Is(err, ErrLineupAlreadyLocked) {
		t.Errorf("err = %v, want ErrLineupAlreadyLocked", err)
	}
}

func TestSubstituteGoalkeeperInLine(t *testing.T) {
	h := startedHarness(t)
	h.tick(90)
	if err := h.s.Substitute("gk", "b1"); err != nil {
		t.Fatal(err)
	}
	l := h.s.Lineup()
	if l.GoalkeeperID != "b1" {
		t.Errorf("goalkeeper = %q, want b1", l.GoalkeeperID)
	}
	if l.OnCourt[0] != "b1" || !l.IsOnBench("gk") {
		t.Errorf("lineup = %+v", l)
	}
	want := SubstitutionRecord{PlayerOutID: "gk", PlayerInID: "b1", Time: 90, Period: PeriodFirst}
	if len(l.Substitutions) != 1 || l.Substitutions[0] != want {
		t.Errorf("history = %+v, want [%+v]", l.Substitutions, want)
	}

	if err := h.s.Substitute("gk", "b2"); !errors.Is(err, ErrPlayerNotOnCourt) {
		t.Errorf("err = %v, want ErrPlayerNotOnCourt", err)
	}
	if err := h.s.Substitute("p1", "p2"); !errors.Is(err, ErrPlayerNotOnBench) {
		t.Errorf("err = %v, want ErrPlayerNotOnBench", err)
	}
}

func TestSetGoalkeeper(t *testing.T) {
	h := startedHarness(t)
	if err := h.s.SetGoalkeeper("p4"); err != nil {
		t.Fatal(err)
	}
	h.do(SelectPlayer{"p4"})
	if _, err := h.s.Dispatch(PressAction{EventSave}); err != nil {
		t.Fatalf("save by designated goalkeeper: %v", err)
	}
	if err := h.s.SetGoalkeeper("b1"); !errors.Is(err, ErrPlayerNotOnCourt) {
		t.Errorf("err = %v, want ErrPlayerNotOnCourt", err)
	}
}

func TestCardEscalation(t *testing.T) {
	tests := []struct {
		cards []CardType
		want  bool
	}{
		{[]CardType{CardYellow}, false},
		{[]CardType{CardYellow, CardYellow}, true},
		{[]CardType{CardSecondYellow}, true},
		{[]CardType{CardRed}, true},
	}
	for _, tt := range tests {
		if got := IsExpelledBy(tt.cards); got != tt.want {
			t.Errorf("IsExpelledBy(%v) = %v, want %v", tt.cards, got, tt.want)
		}
	}
}

func expelP2At300(t *testing.T) *harness {
	t.Helper()
	h := startedHarness(t)
	h.tick(300)
	h.action("p2", EventCard, string(CardSecondYellow))

	l := h.s.Lineup()
	if len(l.OnCourt) != 4 || l.IsOnCourt("p2") || l.IsOnBench("p2") {
		t.Fatalf("lineup after expulsion = %+v", l)
	}
	want := ExpulsionSlot{ExpelledPlayerID: "p2", ExpelledAtSeconds: 300, Period: PeriodFirst}
	if len(l.Expulsions) != 1 || l.Expulsions[0] != want {
		t.Fatalf("expulsions = %+v, want [%+v]", l.Expulsions, want)
	}
	return h
}

func TestExpulsionUnlocksAfterWait(t *testing.T) {
	h := expelP2At300(t)

	h.tick(119)
	if h.s.ExpulsionUnlocked() {
		t.Fatal("unlocked at 419")
	}
	if err := h.s.FillExpulsion("b1"); !errors.Is(err, ErrExpulsionLocked) {
		t.Fatalf("err = %v, want ErrExpulsionLocked", err)
	}

	h.tick(1)
	if !h.s.ExpulsionUnlocked() {
		t.Fatal("still locked at 420")
	}
	if err := h.s.FillExpulsion("b1"); err != nil {
		t.Fatal(err)
	}
	l := h.s.Lineup()
	if len(l.OnCourt) != 5 || len(l.Expulsions) != 0 {
		t.Errorf("lineup after fill = %+v", l)
	}
	last := l.Substitutions[len(l.Substitutions)-1]
	if last.PlayerOutID != "p2" || last.PlayerInID != "b1" || last.Time != 420 {
		t.Errorf("substitution = %+v", last)
	}
}

func TestExpulsionUnlocksOnOpponentGoal(t *testing.T) {
	h := expelP2At300(t)
	h.tick(10)
	h.do(PressAction{EventGoal}, ChooseOption{OptionTheirs}, ChooseOption{"Ataque"}, Confirm{})

	if !h.s.ExpulsionUnlocked() {
		t.Fatal("opponent goal did not unlock the replacement")
	}
	if err := h.s.FillExpulsion("b2"); err != nil {
		t.Fatal(err)
	}
}

func TestExpulsionNotUnlockedByOurGoal(t *testing.T) {
	h := expelP2At300(t)
	h.tick(10)
	h.do(PressAction{EventGoal}, ChooseOption{OptionOurs}, SelectPlayer{"p1"}, ChooseOption{"Ataque"}, Confirm{})
	if h.s.ExpulsionUnlocked() {
		t.Fatal("our goal unlocked the replacement")
	}
}

func TestExpulsionUnlockedInLaterPeriodOnlyByGoal(t *testing.T) {
	slot := ExpulsionSlot{ExpelledPlayerID: "p2", ExpelledAtSeconds: 1100, Period: PeriodFirst}
	now := Stamp{Time: 50, Period: PeriodSecond}
	if slot.Unlocked(now, nil, ExpulsionWaitSeconds) {
		t.Fatal("wait carried across periods")
	}
	conceded := Event{ID: "g", Time: 10, Period: PeriodSecond, Payload: GoalPayload{Result: GoalNormal, IsOpponentGoal: true}}
	if !slot.Unlocked(now, []Event{conceded}, ExpulsionWaitSeconds) {
		t.Fatal("goal in a later period did not unlock")
	}
	early := Event{ID: "g0", Time: 200, Period: PeriodFirst, Payload: GoalPayload{Result: GoalNormal, IsOpponentGoal: true}}
	if slot.Unlocked(now, []Event{early}, ExpulsionWaitSeconds) {
		t.Fatal("goal before the expulsion unlocked")
	}
}

func TestFillExpulsionWithoutSlot(t *testing.T) {
	h := startedHarness(t)
	if err := h.s.FillExpulsion("b1"); !errors.Is(err, ErrNoExpulsion) {
		t.Errorf("err = %v, want ErrNoExpulsion", err)
	}
}

func TestExpelledGoalkeeperLeavesRoleOpen(t *testing.T) {
	h := startedHarness(t)
	h.action("gk", EventCard, string(CardRed))
	l := h.s.Lineup()
	if l.GoalkeeperID != "" {
		t.Fatalf("goalkeeper = %q, want empty", l.GoalkeeperID)
	}
	if err := h.s.SetGoalkeeper("p4"); err != nil {
		t.Fatal(err)
	}
}
