package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventNewGame EventType = iota
	EventNewTurn
	EventNewRound
	EventDraw
	EventAlert
	EventPlay
	EventWeapon
	EventHelper
	EventDiscard
	EventDiscardPlayed
	EventHourChange
	EventCardTick
	EventShare
	EventExpire
	EventVoid
	EventSettle
	EventRoll
	EventDefend
	EventDeflect
	EventNoTarget
	EventSkip
	EventReshuffle
	EventWin
	EventRoundLimit
)

func (e EventType) String() string {
	switch e {
	case EventNewGame:
		return "NewGame"
	case EventNewTurn:
		return "NewTurn"
	case EventNewRound:
		return "NewRound"
	case EventDraw:
		return "Draw"
	case EventAlert:
		return "Alert"
	case EventPlay:
		return "Play"
	case EventWeapon:
		return "Weapon"
	case EventHelper:
		return "Helper"
	case EventDiscard:
		return "Discard"
	case EventDiscardPlayed:
		return "DiscardPlayed"
	case EventHourChange:
		return "HourChange"
	case EventCardTick:
		return "CardTick"
	case EventShare:
		return "Share"
	case EventExpire:
		return "Expire"
	case EventVoid:
		return "Void"
	case EventSettle:
		return "Settle"
	case EventRoll:
		return "Roll"
	case EventDefend:
		return "Defend"
	case EventDeflect:
		return "Deflect"
	case EventNoTarget:
		return "NoTarget"
	case EventSkip:
		return "Skip"
	case EventReshuffle:
		return "Reshuffle"
	case EventWin:
		return "Win"
	case EventRoundLimit:
		return "RoundLimit"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // round counter when the event happened
	Turn    int       // which turn (1-based)
	Phase   string    // turn phase name (e.g. "Play")
	Player  int       // acting or affected player
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Delta   int       // hour delta for hour-carrying events
	Details string    // human-readable detail string

	// State is the card's state after the event, for tick/expire/settle events.
	State *CardState
}

// CardState is the renderable state of one in-play card, attached to tick
// and settle events so a front end can redraw the card without a full view.
type CardState struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Owner        int    `json:"owner"`
	Slot         int    `json:"slot"`
	HourValue    int    `json:"hour_value"`
	RoundsInPlay int    `json:"rounds_in_play"`
	Protected    bool   `json:"protected,omitempty"`
	Expired      bool   `json:"expired,omitempty"`
}
