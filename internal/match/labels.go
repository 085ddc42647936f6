package match

// Display labels shown on the capture screen and printed sheets.
var tipoLabels = map[EventType]string{
	EventPass:     "Passe",
	EventShot:     "Finalização",
	EventFoul:     "Falta",
	EventGoal:     "Gol",
	EventCard:     "Cartão",
	EventTackle:   "Desarme",
	EventSave:     "Defesa",
	EventBlock:    "Bloqueio",
	EventCorner:   "Escanteio",
	EventFreeKick: "Tiro Livre",
	EventPenalty:  "Pênalti",
	EventLateral:  "Lateral",
}

var zoneLabels = map[Zone]string{
	ZoneAttackLeft:   "Ataque Esquerda",
	ZoneAttackRight:  "Ataque Direita",
	ZoneDefenseLeft:  "Defesa Esquerda",
	ZoneDefenseRight: "Defesa Direita",
}

var subtipoLabels = map[EventType]map[string]string{
	EventPass: {
		string(PassCorrect): "Certo",
		string(PassWrong):   "Errado",
	},
	EventShot: {
		string(ShotInside):  "No gol",
		string(ShotOutside): "Fora",
		string(ShotPost):    "Na trave",
		string(ShotBlocked): "Bloqueada",
	},
	EventFoul: {
		string(FoulFor):     "Cometida",
		string(FoulAgainst): "Sofrida",
	},
	EventCard: {
		string(CardYellow):       "Amarelo",
		string(CardSecondYellow): "Segundo Amarelo",
		string(CardRed):          "Vermelho",
	},
	EventTackle: {
		string(TackleWithBall):    "Com posse",
		string(TackleWithoutBall): "Sem posse",
		string(TackleCounter):     "Contra-ataque",
	},
	EventSave: {
		string(SaveSimple): "Simples",
		string(SaveHard):   "Difícil",
	},
	EventBlock: {
		string(BlockShot): "Finalização",
		string(BlockPass): "Passe",
	},
}

var kickLabels = map[KickResult]string{
	KickGoal:    "Gol",
	KickSaved:   "Defendido",
	KickOutside: "Fora",
	KickPost:    "Na trave",
	KickNoGoal:  "Sem gol",
}

// Goal method vocabularies. Scored and conceded goals use distinct lists.
var (
	ScoredGoalMethods = []string{
		"Ataque", "Contra-ataque", "Escanteio", "Tiro livre", "Pênalti",
		"Lateral", "Goleiro-linha", "Recuperação alta",
	}
	ConcededGoalMethods = []string{
		"Ataque", "Contra-ataque", "Escanteio", "Tiro livre", "Pênalti",
		"Lateral", "Goleiro-linha adversário", "Erro individual",
	}
)

// Labels derives the tipo/subtipo display pair from the payload.
func Labels(p Payload) (tipo, subtipo string) {
	if p == nil {
		return "", ""
	}
	tipo = tipoLabels[p.EventType()]
	switch v := p.(type) {
	case GoalPayload:
		switch {
		case v.IsOpponentGoal:
			subtipo = "Gol Adversário"
		case v.Result == GoalContra:
			subtipo = "Gol Contra"
		default:
			subtipo = "Gol Nosso"
		}
	case CornerPayload:
		subtipo = zoneLabels[v.Result]
	case LateralPayload:
		subtipo = zoneLabels[v.Result]
	case FreeKickPayload:
		subtipo = kickSubtipo(v.Kick)
	case PenaltyPayload:
		subtipo = kickSubtipo(v.Kick)
	default:
		subtipo = subtipoLabels[p.EventType()][p.result()]
	}
	return tipo, subtipo
}

func kickSubtipo(k Kick) string {
	side := "Contra"
	if k.IsForUs {
		side = "A favor"
	}
	return side + " - " + kickLabels[k.Result]
}
