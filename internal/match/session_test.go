package match

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var testRoster = []Player{
	{ID: "gk", Name: "Goleiro", JerseyNumber: 1, Position: PositionGoalkeeper},
	{ID: "p1", Name: "Ala Um", Nickname: "Um", JerseyNumber: 7, Position: "ala"},
	{ID: "p2", Name: "Ala Dois", JerseyNumber: 8, Position: "ala"},
	{ID: "p3", Name: "Pivo", JerseyNumber: 9, Position: "pivo"},
	{ID: "p4", Name: "Fixo", JerseyNumber: 4, Position: "fixo"},
	{ID: "b1", Name: "Reserva Um", JerseyNumber: 12, Position: "ala"},
	{ID: "b2", Name: "Reserva Dois", JerseyNumber: 10, Position: "pivo"},
	{ID: "gk2", Name: "Goleiro Dois", JerseyNumber: 21, Position: PositionGoalkeeper},
}

var startingFive = []string{"gk", "p1", "p2", "p3", "p4"}

var testBase = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

type harness struct {
	t   *testing.T
	s   *Session
	now time.Time
	seq int
}

func newHarness(t *testing.T, mode Mode) *harness {
	t.Helper()
	h := &harness{t: t, now: testBase}
	cfg := DefaultSessionConfig()
	cfg.Mode = mode
	s, err := NewSession(cfg, MatchInfo{ID: "m1", Opponent: "Rival FC", Competition: "Liga"}, testRoster,
		WithClock(func() time.Time { return h.now }),
		WithIDGenerator(func() string {
			h.seq++
			return fmt.Sprintf("e%d", h.seq)
		}),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	h.s = s
	return h
}

// startedHarness returns a realtime session with the default lineup and a running clock.
func startedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, ModeRealtime)
	with := WithPossession
	if err := h.s.ConfirmLineup(startingFive, &with); err != nil {
		t.Fatalf("ConfirmLineup: %v", err)
	}
	if err := h.s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.now = h.now.Add(time.Second)
		h.s.Tick(h.now)
	}
}

func (h *harness) do(in ...Input) *Event {
	h.t.Helper()
	var last *Event
	for _, i := range in {
		e, err := h.s.Dispatch(i)
		if err != nil {
			h.t.Fatalf("Dispatch(%#v): %v", i, err)
		}
		if e != nil {
			last = e
		}
	}
	return last
}

func (h *harness) action(player string, action EventType, option string) *Event {
	h.t.Helper()
	return h.do(SelectPlayer{player}, PressAction{action}, ChooseOption{option})
}

func TestGoalScenario(t *testing.T) {
	h := startedHarness(t)
	h.tick(65)

	h.do(PressAction{EventGoal})
	if got := h.s.Clock().State; got != ClockPaused {
		t.Fatalf("clock state after goal press = %s, want %s", got, ClockPaused)
	}
	h.tick(10)
	goal := h.do(ChooseOption{OptionOurs}, SelectPlayer{"p1"}, ChooseOption{"Ataque"}, Confirm{})

	if goal == nil {
		t.Fatal("expected a goal event")
	}
	if goal.Time != 65 {
		t.Errorf("goal time = %d, want 65", goal.Time)
	}
	if goal.PlayerID != "p1" || goal.Subtipo != "Gol Nosso" {
		t.Errorf("goal = %+v", goal)
	}
	if got := h.s.Tally().GoalsFor; got != 1 {
		t.Errorf("goalsFor = %d, want 1", got)
	}
	if got := h.s.Clock().State; got != ClockPaused {
		t.Errorf("clock state after confirm = %s, want %s", got, ClockPaused)
	}
	if got := h.s.Clock().Seconds; got != 65 {
		t.Errorf("clock seconds = %d, want 65", got)
	}
	if err := h.s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
}

func TestConcededGoalSkipsAuthor(t *testing.T) {
	h := startedHarness(t)
	h.tick(10)
	goal := h.do(PressAction{EventGoal}, ChooseOption{OptionTheirs}, ChooseOption{"Erro individual"}, Confirm{})
	g, _ := goal.Goal()
	if !g.IsOpponentGoal || goal.PlayerID != "" {
		t.Fatalf("conceded goal = %+v", goal)
	}
	if tl := h.s.Tally(); tl.GoalsAgainst != 1 || tl.GoalsFor != 0 {
		t.Errorf("tally = %+v", tl)
	}
}

func TestOwnGoal(t *testing.T) {
	h := startedHarness(t)
	h.tick(10)
	goal := h.do(PressAction{EventGoal}, ChooseOption{OptionOurs}, ChooseOption{OptionOwnGoal}, ChooseOption{"Ataque"}, Confirm{})
	if goal.Subtipo != "Gol Contra" || goal.PlayerID != "" {
		t.Fatalf("own goal = %+v", goal)
	}
	if got := h.s.Tally().GoalsFor; got != 1 {
		t.Errorf("goalsFor = %d, want 1", got)
	}
}

func TestGoalMethodVocabularyDependsOnTeam(t *testing.T) {
	h := startedHarness(t)
	h.do(PressAction{EventGoal}, ChooseOption{OptionTheirs})
	if _, err := h.s.Dispatch(ChooseOption{"Recuperação alta"}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}
	if _, err := h.s.Dispatch(Confirm{}); !errors.Is(err, ErrNothingToConfirm) {
		t.Fatalf("err = %v, want ErrNothingToConfirm", err)
	}
}

func TestActionPreconditions(t *testing.T) {
	h := newHarness(t, ModeRealtime)
	if _, err := h.s.Dispatch(PressAction{EventShot}); !errors.Is(err, ErrMatchNotStarted) {
		t.Fatalf("before lineup: err = %v, want ErrMatchNotStarted", err)
	}

	with := WithPossession
	if err := h.s.ConfirmLineup(startingFive, &with); err != nil {
		t.Fatal(err)
	}
	h.do(SelectPlayer{"p1"})
	if _, err := h.s.Dispatch(PressAction{EventShot}); !errors.Is(err, ErrClockStopped) {
		t.Fatalf("stopped clock: err = %v, want ErrClockStopped", err)
	}
	if _, err := h.s.Dispatch(PressAction{EventGoal}); err != nil {
		t.Fatalf("goal while stopped: %v", err)
	}
	h.do(Cancel{})

	if err := h.s.Start(); err != nil {
		t.Fatal(err)
	}
	h.do(SelectPlayer{"p1"})
	if _, err := h.s.Dispatch(PressAction{EventSave}); !errors.Is(err, ErrNotGoalkeeper) {
		t.Fatalf("save by line player: err = %v, want ErrNotGoalkeeper", err)
	}
	if _, err := h.s.Dispatch(SelectPlayer{"b1"}); !errors.Is(err, ErrPlayerNotOnCourt) {
		t.Fatalf("bench selection: err = %v, want ErrPlayerNotOnCourt", err)
	}
	if len(h.s.Events()) != 0 {
		t.Errorf("rejected inputs logged %d events", len(h.s.Events()))
	}
}

func TestNoPlayerSelected(t *testing.T) {
	h := startedHarness(t)
	if _, err := h.s.Dispatch(PressAction{EventTackle}); !errors.Is(err, ErrNoPlayerSelected) {
		t.Fatalf("err = %v, want ErrNoPlayerSelected", err)
	}
	if err := ErrNoPlayerSelected.Error(); err != "select a player first" {
		t.Errorf("message = %q", err)
	}
}

func TestPassReceiverFlow(t *testing.T) {
	h := startedHarness(t)
	h.tick(3)

	pass := h.action("p1", EventPass, "correct")
	if pass.Tipo != "Passe" || pass.Subtipo != "Certo" {
		t.Errorf("labels = %q/%q", pass.Tipo, pass.Subtipo)
	}
	if k := h.s.Flow().Kind(); k != FlowReceiver {
		t.Fatalf("flow = %s, want %s", k, FlowReceiver)
	}

	updated := h.do(SelectPlayer{"p2"})
	p, _ := updated.Pass()
	if p.PassToPlayerID != "p2" || p.PassToName != "Ala Dois" {
		t.Errorf("receiver = %+v", p)
	}
	if got := h.s.View().Selected; got != "p2" {
		t.Errorf("selected = %q, want p2", got)
	}
	if k := h.s.Flow().Kind(); k != FlowIdle {
		t.Errorf("flow = %s, want idle", k)
	}
}

func TestPassPressedAgainDeletesPendingPass(t *testing.T) {
	h := startedHarness(t)
	h.action("p1", EventPass, "correct")
	h.do(PressAction{EventPass})

	if n := len(h.s.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}
	if k := h.s.Flow().Kind(); k != FlowIdle {
		t.Errorf("flow = %s, want idle", k)
	}
}

func TestWrongPassDoesNotWaitForReceiver(t *testing.T) {
	h := startedHarness(t)
	h.action("p1", EventPass, "wrong")
	if k := h.s.Flow().Kind(); k != FlowIdle {
		t.Errorf("flow = %s, want idle", k)
	}
}

func TestNewActionKeepsPendingPass(t *testing.T) {
	h := startedHarness(t)
	h.action("p1", EventPass, "correct")
	h.do(PressAction{EventShot}, ChooseOption{"outside"})

	events := h.s.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[1].PlayerID != "p1" {
		t.Errorf("shot player = %q, want p1", events[1].PlayerID)
	}
}

func TestAssistLinkedOnGoal(t *testing.T) {
	h := startedHarness(t)
	h.tick(10)
	h.action("p1", EventPass, "correct")
	h.do(SelectPlayer{"p2"})
	h.tick(4)
	h.do(PressAction{EventGoal}, ChooseOption{OptionOurs}, SelectPlayer{"p2"}, ChooseOption{"Ataque"}, Confirm{})

	p, _ := h.s.Events()[0].Pass()
	if !p.IsAssist {
		t.Fatal("pass not marked as assist")
	}
}

func TestAssistOutsideWindow(t *testing.T) {
	h := startedHarness(t)
	h.action("p1", EventPass, "correct")
	h.do(SelectPlayer{"p2"})
	h.tick(AssistWindowSeconds + 1)
	h.do(PressAction{EventGoal}, ChooseOption{OptionOurs}, SelectPlayer{"p2"}, ChooseOption{"Ataque"}, Confirm{})

	p, _ := h.s.Events()[0].Pass()
	if p.IsAssist {
		t.Fatal("pass outside the window marked as assist")
	}
}

func TestPossessionAccountsEveryRunningSecond(t *testing.T) {
	h := startedHarness(t)
	h.tick(30)
	h.action("p1", EventTackle, "withoutBall")
	h.tick(20)
	if err := h.s.TogglePossession(); err != nil {
		t.Fatal(err)
	}
	h.tick(7)
	h.action("gk", EventSave, "hard")
	h.tick(3)

	pos := h.s.Possession()
	if pos.With+pos.Without != h.s.Clock().Seconds {
		t.Fatalf("with %d + without %d != clock %d", pos.With, pos.Without, h.s.Clock().Seconds)
	}
	if pos.With != 40 || pos.Without != 20 {
		t.Errorf("with = %d, without = %d; want 40, 20", pos.With, pos.Without)
	}
	if pos.State != WithPossession {
		t.Errorf("state = %s, want with", pos.State)
	}
}

func TestPeriodTransition(t *testing.T) {
	h := startedHarness(t)
	h.tick(DefaultPeriodLength + 5)

	c := h.s.Clock()
	if c.State != ClockPeriodEnded || c.Seconds != DefaultPeriodLength {
		t.Fatalf("clock = %+v", c)
	}
	if err := h.s.StartSecondPeriod(); err != nil {
		t.Fatal(err)
	}
	c = h.s.Clock()
	if c.Period != PeriodSecond || c.Seconds != 0 || !c.Running() {
		t.Errorf("second period clock = %+v", c)
	}
	if got := h.s.Possession().State; got != WithoutPossession {
		t.Errorf("second period possession = %s, want without", got)
	}
	h.tick(5)
	if err := h.s.StartSecondPeriod(); !errors.Is(err, ErrInvalidClockOp) {
		t.Errorf("err = %v, want ErrInvalidClockOp", err)
	}
}

func foulUntilThreshold(h *harness, n int) {
	for i := 0; i < n; i++ {
		h.action("p4", EventFoul, "for")
	}
}

func TestFreeKickUnlocksAtFiveFouls(t *testing.T) {
	h := startedHarness(t)
	foulUntilThreshold(h, 4)
	if _, err := h.s.Dispatch(PressAction{EventFreeKick}); !errors.Is(err, ErrFreeKickLocked) {
		t.Fatalf("err = %v, want ErrFreeKickLocked", err)
	}
	foulUntilThreshold(h, 1)
	if got := h.s.Tally().FoulsFor; got != 5 {
		t.Fatalf("foulsFor = %d, want 5", got)
	}
	if !h.s.FreeKickEnabled() {
		t.Fatal("free kick still locked")
	}
	h.do(PressAction{EventFreeKick})
	if got := h.s.Clock().State; got != ClockPaused {
		t.Errorf("clock state = %s, want paused", got)
	}
}

func TestKickAutoResume(t *testing.T) {
	h := startedHarness(t)
	h.tick(100)

	kick := h.do(PressAction{EventPenalty}, ChooseOption{OptionOurs}, SelectPlayer{"p3"}, ChooseOption{"saved"})
	if kick.PlayerID != "p3" || kick.Subtipo != "A favor - Defendido" {
		t.Fatalf("kick = %+v", kick)
	}
	if !h.s.ResumePending() {
		t.Fatal("expected pending auto-resume")
	}

	if h.s.Tick(h.now.Add(500 * time.Millisecond)) {
		t.Error("tick before the delay changed state")
	}
	if !h.s.Tick(h.now.Add(time.Second)) {
		t.Fatal("tick at the delay did not resume")
	}
	if c := h.s.Clock(); !c.Running() || c.Seconds != 101 {
		t.Errorf("clock = %+v", c)
	}
}

func TestKickTerminalResultLeavesClockStopped(t *testing.T) {
	h := startedHarness(t)
	h.do(PressAction{EventPenalty}, ChooseOption{OptionTheirs}, ChooseOption{"goal"})
	if h.s.ResumePending() {
		t.Fatal("terminal result scheduled a resume")
	}
	h.tick(3)
	if got := h.s.Clock().State; got != ClockPaused {
		t.Errorf("clock state = %s, want paused", got)
	}
	if got := h.s.Tally().GoalsAgainst; got != 0 {
		t.Errorf("kick result counted as goal: goalsAgainst = %d", got)
	}
}

func TestAutoResumeIgnoredAfterMatchEnd(t *testing.T) {
	h := startedHarness(t)
	h.do(PressAction{EventPenalty}, ChooseOption{OptionOurs}, ChooseOption{OptionNoKick}, ChooseOption{"post"})
	if err := h.s.EndMatch(); err != nil {
		t.Fatal(err)
	}
	if h.s.Tick(h.now.Add(2 * time.Second)) {
		t.Error("tick after match end changed state")
	}
	if got := h.s.Clock().State; got != ClockMatchEnded {
		t.Errorf("clock state = %s, want matchEnded", got)
	}
	if _, err := h.s.Dispatch(PressAction{EventGoal}); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("err = %v, want ErrMatchEnded", err)
	}
}

func TestManualPauseCancelsAutoResume(t *testing.T) {
	h := startedHarness(t)
	h.do(PressAction{EventPenalty}, ChooseOption{OptionTheirs}, ChooseOption{"outside"})
	if err := h.s.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := h.s.Pause(); err != nil {
		t.Fatal(err)
	}
	h.tick(2)
	if got := h.s.Clock().State; got != ClockPaused {
		t.Errorf("clock state = %s, want paused", got)
	}
}

func TestCornerFromArmedSector(t *testing.T) {
	h := startedHarness(t)
	h.do(ArmSector{ZoneAttackLeft}, SelectPlayer{"p3"})
	corner := h.do(PressAction{EventCorner})
	if corner == nil || corner.Subtipo != "Ataque Esquerda" {
		t.Fatalf("corner = %+v", corner)
	}
	if got := h.s.View().ArmedSector; got != "" {
		t.Errorf("sector still armed: %q", got)
	}

	lateral := h.action("p3", EventLateral, string(ZoneDefenseRight))
	if lateral.Tipo != "Lateral" || lateral.Subtipo != "Defesa Direita" {
		t.Errorf("lateral labels = %q/%q", lateral.Tipo, lateral.Subtipo)
	}
}

func TestManualModeShot(t *testing.T) {
	h := newHarness(t, ModePostMatch)
	with := WithoutPossession
	if err := h.s.ConfirmLineup(startingFive, &with); err != nil {
		t.Fatal(err)
	}
	if err := h.s.Start(); !errors.Is(err, ErrManualMode) {
		t.Fatalf("Start in post-match mode: err = %v, want ErrManualMode", err)
	}
	h.do(SelectPlayer{"p3"})
	if _, err := h.s.Dispatch(PressAction{EventShot}); !errors.Is(err, ErrManualTimeRequired) {
		t.Fatalf("err = %v, want ErrManualTimeRequired", err)
	}
	if err := h.s.SetManualTime("0100"); err != nil {
		t.Fatal(err)
	}
	shot := h.do(PressAction{EventShot}, ChooseOption{"inside"})

	if shot.Time != 60 || shot.Period != PeriodFirst {
		t.Errorf("stamp = %d/%s, want 60/FIRST", shot.Time, shot.Period)
	}
	if shot.Tipo != "Finalização" || shot.Subtipo != "No gol" {
		t.Errorf("labels = %q/%q", shot.Tipo, shot.Subtipo)
	}
	if h.s.View().ManualTime != nil {
		t.Error("manual time not consumed by the event")
	}
}

func TestManualModePeriod(t *testing.T) {
	h := newHarness(t, ModePostMatch)
	with := WithPossession
	if err := h.s.ConfirmLineup(startingFive, &with); err != nil {
		t.Fatal(err)
	}
	if err := h.s.SetManualTime("2130"); err != nil {
		t.Fatal(err)
	}
	e := h.action("p1", EventTackle, "counter")
	if e.Period != PeriodSecond {
		t.Errorf("derived period = %s, want SECOND", e.Period)
	}

	if err := h.s.SetManualPeriod(PeriodFirst); err != nil {
		t.Fatal(err)
	}
	if err := h.s.SetManualTime("2130"); err != nil {
		t.Fatal(err)
	}
	e = h.action("p1", EventTackle, "counter")
	if e.Period != PeriodFirst {
		t.Errorf("pinned period = %s, want FIRST", e.Period)
	}
}

func TestSetManualTimeRejectedInRealtime(t *testing.T) {
	h := startedHarness(t)
	if err := h.s.SetManualTime("0100"); !errors.Is(err, ErrRealtimeMode) {
		t.Errorf("err = %v, want ErrRealtimeMode", err)
	}
}

func TestBenchCandidates(t *testing.T) {
	h := startedHarness(t)
	got := h.s.BenchCandidates(map[string]int{"b1": 3, "gk2": 3})
	want := []string{"b1", "gk2", "b2"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("candidate %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestViewEnabledActions(t *testing.T) {
	h := startedHarness(t)
	v := h.s.View()
	if len(v.EnabledActions) != 2 {
		t.Fatalf("enabled without selection = %v, want goal and penalty", v.EnabledActions)
	}
	h.do(SelectPlayer{"gk"})
	v = h.s.View()
	for _, a := range v.EnabledActions {
		if a == EventFreeKick {
			t.Error("free kick enabled below the foul threshold")
		}
	}
	if len(v.EnabledActions) != len(Actions)-1 {
		t.Errorf("enabled for goalkeeper = %d actions, want %d", len(v.EnabledActions), len(Actions)-1)
	}
}
