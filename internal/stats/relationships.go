package stats

import (
	"sort"

	"github.com/fortuna/quadra/internal/match"
)

// Relationship counts completed passes and assists between two players in
// either direction. PlayerA always sorts before PlayerB.
type Relationship struct {
	PlayerA string `json:"playerA" yaml:"playerA"`
	PlayerB string `json:"playerB" yaml:"playerB"`
	Passes  int    `json:"passes" yaml:"passes"`
	Assists int    `json:"assists" yaml:"assists"`
}

type pairKey struct{ a, b string }

func canonical(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{x, y}
}

// Relationships builds the undirected passer/receiver graph from correct
// passes that have a receiver.
func Relationships(events []match.Event) []Relationship {
	pairs := make(map[pairKey]*Relationship)
	for _, e := range events {
		p, ok := e.Pass()
		if !ok || p.Result != match.PassCorrect || p.PassToPlayerID == "" || e.PlayerID == "" {
			continue
		}
		if p.PassToPlayerID == e.PlayerID {
			continue
		}
		k := canonical(e.PlayerID, p.PassToPlayerID)
		r, ok := pairs[k]
		if !ok {
			r = &Relationship{PlayerA: k.a, PlayerB: k.b}
			pairs[k] = r
		}
		r.Passes++
		if p.IsAssist {
			r.Assists++
		}
	}

	out := make([]Relationship, 0, len(pairs))
	for _, r := range pairs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerA != out[j].PlayerA {
			return out[i].PlayerA < out[j].PlayerA
		}
		return out[i].PlayerB < out[j].PlayerB
	})
	return out
}
