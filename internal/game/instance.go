package game

import (
	"fmt"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// CardInstance is a card in play in front of one player. Each entry into play
// gets a fresh ID; other instances refer to it only by that ID.
type CardInstance struct {
	ID    int
	Def   *CardDef
	Owner int
	Slot  int

	RoundsInPlay        int
	CurrentHourValue    int
	ProtectedByNepotism bool
	HasExpired          bool

	// Sharing is Caring linkage. LinkedCard is an instance ID that may no
	// longer be in play; a missing card counts as expired.
	LinkedPlayer int
	LinkedCard   int

	// Player who played the weapon into this slot, -1 for the owner's own cards.
	Attacker int

	expiryBonus int // extra live rounds granted by Extension
}

// NewCardInstance creates an in-play instance of def owned by owner.
func NewCardInstance(id int, def *CardDef, owner, slot int) *CardInstance {
	return &CardInstance{
		ID:               id,
		Def:              def,
		Owner:            owner,
		Slot:             slot,
		CurrentHourValue: def.ImmediateHours,
		LinkedPlayer:     -1,
		Attacker:         -1,
	}
}

// ExpiresAfter returns the effective expiry threshold, 0 when the card never expires.
func (ci *CardInstance) ExpiresAfter() int {
	if ci.Def.ExpiresAfterRounds == 0 {
		return 0
	}
	return ci.Def.ExpiresAfterRounds + ci.expiryBonus
}

// ExpiredProtected reports whether the card is expired but kept in play by Nepotism.
func (ci *CardInstance) ExpiredProtected() bool {
	return ci.HasExpired && ci.ProtectedByNepotism
}

// ShouldAutoDiscard reports whether the round processor removes this card.
func (ci *CardInstance) ShouldAutoDiscard() bool {
	return ci.HasExpired && !ci.ProtectedByNepotism
}

func (ci *CardInstance) reachedExpiry() bool {
	limit := ci.ExpiresAfter()
	return limit > 0 && ci.RoundsInPlay >= limit
}

// hourGain is the per-round gain for the current RoundsInPlay.
func (ci *CardInstance) hourGain() int {
	switch ci.Def.Mechanic {
	case MechanicProfessional:
		if ci.RoundsInPlay == 8 {
			return 10
		}
		return 0
	case MechanicRisky:
		if ci.RoundsInPlay == 8 {
			return ci.Def.HoursPerRound + 8
		}
		return ci.Def.HoursPerRound
	case MechanicAlternating:
		switch ci.RoundsInPlay % 3 {
		case 1:
			return 1
		case 2:
			return -1
		default:
			return 0
		}
	case MechanicSharing:
		// resolved by the sharing pass
		return 0
	default:
		return ci.Def.HoursPerRound
	}
}

// ProcessRound ticks the card one round and returns the hours it gained.
// Reaching the threshold marks the card expired even when protected; an
// expired protected card only counts the round.
func (ci *CardInstance) ProcessRound() int {
	if ci.ExpiredProtected() {
		ci.RoundsInPlay++
		return 0
	}
	ci.RoundsInPlay++
	gained := ci.hourGain()
	ci.CurrentHourValue += gained
	if ci.reachedExpiry() {
		ci.HasExpired = true
	}
	return gained
}

// AddRound advances the card one round without any hour gain.
func (ci *CardInstance) AddRound() {
	ci.RoundsInPlay++
	if ci.reachedExpiry() {
		ci.HasExpired = true
	}
}

// ForceExpire marks the card expired.
func (ci *CardInstance) ForceExpire() {
	ci.HasExpired = true
}

// ExtendExpiration gives the card n more live rounds.
func (ci *CardInstance) ExtendExpiration(n int) {
	if ci.Def.ExpiresAfterRounds == 0 {
		return
	}
	if ci.HasExpired {
		// n more rounds from now
		ci.expiryBonus = ci.RoundsInPlay + n - ci.Def.ExpiresAfterRounds
	} else {
		ci.expiryBonus += n
	}
	ci.HasExpired = false
}

// Reset returns the card to the state it entered play with. Protection is kept.
func (ci *CardInstance) Reset() {
	ci.RoundsInPlay = 0
	ci.CurrentHourValue = ci.Def.ImmediateHours
	ci.HasExpired = false
	ci.expiryBonus = 0
}

// FinalHourValue is what the owner is credited when the card leaves play.
// Only an auto-discarded card passes on a negative value.
func (ci *CardInstance) FinalHourValue() int {
	if ci.ShouldAutoDiscard() && ci.CurrentHourValue < 0 {
		return ci.CurrentHourValue
	}
	if ci.CurrentHourValue < 0 {
		return 0
	}
	return ci.CurrentHourValue
}

// RoundsUntilExpiry returns the live rounds left, or -1 if the card never expires.
func (ci *CardInstance) RoundsUntilExpiry() int {
	limit := ci.ExpiresAfter()
	if limit == 0 {
		return -1
	}
	if left := limit - ci.RoundsInPlay; left > 0 {
		return left
	}
	return 0
}

// State returns the renderable state of the card.
func (ci *CardInstance) State() log.CardState {
	return log.CardState{
		ID:           ci.ID,
		Name:         ci.Def.Name,
		Owner:        ci.Owner,
		Slot:         ci.Slot,
		HourValue:    ci.CurrentHourValue,
		RoundsInPlay: ci.RoundsInPlay,
		Protected:    ci.ProtectedByNepotism,
		Expired:      ci.HasExpired,
	}
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	limit := ci.ExpiresAfter()
	s := fmt.Sprintf("%s (round %d/%d, hours %d)", ci.Def.Name, ci.RoundsInPlay, limit, ci.CurrentHourValue)
	if ci.ProtectedByNepotism {
		s += " [protected]"
	}
	if ci.HasExpired {
		s += " [expired]"
	}
	return s
}
