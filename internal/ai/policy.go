package ai

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/peterkuimelis/procrastination/internal/game"
)

// Tier is the difficulty of a computer player.
type Tier int

const (
	TierEasy      Tier = iota // first valid play, random targets
	TierMedium                // builds its own board first, hits the busiest opponent
	TierExpert                // weighted scoring with a little noise
	TierNightmare             // weighted scoring, no noise
)

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierExpert:
		return "expert"
	case TierNightmare:
		return "nightmare"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ParseTier parses a tier name, ignoring case.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "":
		return TierEasy, nil
	case "medium":
		return TierMedium, nil
	case "expert":
		return TierExpert, nil
	case "nightmare":
		return TierNightmare, nil
	default:
		return TierEasy, fmt.Errorf("unknown AI tier: %q", s)
	}
}

// Weights are the strategy knobs of a tier. Both range over [0, 1].
type Weights struct {
	Aggressiveness float64
	RiskTolerance  float64
}

// TierWeights holds the weights of each tier, indexed by Tier.
var TierWeights = [...]Weights{
	TierEasy:      {Aggressiveness: 0.3, RiskTolerance: 0.2},
	TierMedium:    {Aggressiveness: 0.5, RiskTolerance: 0.5},
	TierExpert:    {Aggressiveness: 0.7, RiskTolerance: 0.6},
	TierNightmare: {Aggressiveness: 0.9, RiskTolerance: 0.8},
}

// Policy makes individual decisions for one tier. It keeps no game state;
// every decision depends only on its arguments and the random source.
type Policy struct {
	Tier Tier
	Weights
	rng *rand.Rand
}

// NewPolicy creates a policy for tier. A nil rng gets a time-seeded source.
func NewPolicy(tier Tier, rng *rand.Rand) *Policy {
	if tier < TierEasy || tier > TierNightmare {
		tier = TierEasy
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Policy{Tier: tier, Weights: TierWeights[tier], rng: rng}
}

// ChooseDrawSource decides where to draw from: true for the draw pile, false
// for the top of the discard pile. playCount is the number of play cards in
// hand, hourCount the number of cards that move hours directly (weapons and
// helpers).
func (p *Policy) ChooseDrawSource(handSize, playCount, hourCount int) bool {
	switch p.Tier {
	case TierEasy:
		return p.rng.Float64() < 0.7
	case TierMedium:
		if playCount < 2 {
			return true
		}
		if playCount > 3 {
			return false
		}
		return p.rng.Float64() < 0.6
	default:
		if handSize <= 0 {
			return true
		}
		playRatio := float64(playCount) / float64(handSize)
		hourRatio := float64(hourCount) / float64(handSize)
		if playRatio < 0.3 {
			return true
		}
		if playRatio > 0.5 && hourRatio < 0.2 {
			return false
		}
		return p.rng.Float64() < 0.7-playRatio
	}
}

// EvaluatePlay scores playing a card of the given category. targetIsOwn is
// whether the card acts on the player's own board, targetOccupied whether the
// slot or card it acts on already holds a card. Higher is better; zero means
// the play is not worth making.
func (p *Policy) EvaluatePlay(category game.Category, targetIsOwn, targetOccupied bool) float64 {
	switch p.Tier {
	case TierEasy:
		return 1.0
	case TierMedium:
		switch {
		case category == game.CategoryPlay && targetIsOwn && !targetOccupied:
			return 5.0
		case category == game.CategoryWeapon && !targetIsOwn && !targetOccupied:
			return 4.0
		case category == game.CategoryHelper && targetIsOwn && targetOccupied:
			return 3.0
		}
		return 0
	default:
		switch {
		case category == game.CategoryPlay && targetIsOwn && !targetOccupied:
			return 8.0
		case category == game.CategoryWeapon && !targetIsOwn && !targetOccupied:
			return 7.0 * p.Aggressiveness
		case category == game.CategoryHelper && targetIsOwn && targetOccupied:
			return 5.0
		}
		return 0
	}
}

// SelectWeaponTarget picks an opponent to attack. threats holds a threat
// count per player (cards in play); self is never chosen. Returns -1 when
// there is no opponent.
func (p *Policy) SelectWeaponTarget(threats []int, self int) int {
	if len(threats) < 2 {
		return -1
	}
	switch p.Tier {
	case TierEasy:
		for {
			if t := p.rng.Intn(len(threats)); t != self {
				return t
			}
		}
	case TierMedium:
		best, target := -1, -1
		for i, n := range threats {
			if i != self && n > best {
				best, target = n, i
			}
		}
		return target
	default:
		best, target := -1.0, -1
		for i, n := range threats {
			if i == self {
				continue
			}
			score := float64(n) * 2.0
			if p.Tier == TierExpert {
				score += p.rng.Float64() * 2.0
			}
			if score > best {
				best, target = score, i
			}
		}
		return target
	}
}

// ShouldDiscard decides whether to discard a card of the given category
// instead of playing it. It is always true when the card has no valid play.
func (p *Policy) ShouldDiscard(category game.Category, hasValidPlay bool) bool {
	if !hasValidPlay {
		return true
	}
	switch p.Tier {
	case TierEasy:
		return false
	case TierMedium:
		return category == game.CategoryHelper && p.rng.Float64() < 0.3
	default:
		switch category {
		case game.CategoryHelper:
			return p.rng.Float64() < 0.4
		case game.CategoryWeapon:
			return p.rng.Float64() < 0.2*(1-p.Aggressiveness)
		}
		return false
	}
}

// ShouldExcuse decides whether to spend Excused on an incoming weapon.
// Careful tiers always do; the others gamble in proportion to their risk
// tolerance.
func (p *Policy) ShouldExcuse() bool {
	if p.Tier >= TierExpert {
		return true
	}
	return p.rng.Float64() >= p.RiskTolerance
}
