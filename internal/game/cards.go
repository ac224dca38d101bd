package game

// CardID identifies a catalog entry. The set is closed.
type CardID int

const (
	CardOnTheClock CardID = iota
	CardProfessional
	CardRisky
	CardSharingIsCaring
	CardUnpredictable

	CardTardy
	CardDeadline
	CardStockMarket
	CardScammer
	CardQuit
	CardParasite
	CardDownsizing
	CardForeignExchange

	CardExcused
	CardExtension
	CardNepotism
	CardNewbie

	CardAmnesia
	CardFired
	CardPerformanceReview
	CardRecession

	cardCount
)

func (id CardID) String() string {
	if d := Get(id); d != nil {
		return d.Name
	}
	return "Unknown"
}

// CardDef is the immutable definition of one catalog entry.
type CardDef struct {
	ID                 CardID
	Name               string
	Category           Category
	HoursPerRound      int
	ImmediateHours     int // applied once on entry into play
	ExpiresAfterRounds int // 0 = never auto-expires
	Mechanic           Mechanic
	Description        string
}

// IsPlayWeapon reports whether the card is a weapon that occupies a slot.
func (d *CardDef) IsPlayWeapon() bool {
	return d.Category == CategoryWeapon && d.ExpiresAfterRounds > 0
}

// IsRollingWeapon reports whether the card re-plays itself on removal.
func (d *CardDef) IsRollingWeapon() bool {
	return d.Mechanic == MechanicRolling
}

func (d *CardDef) HasSharingMechanic() bool     { return d.Mechanic == MechanicSharing }
func (d *CardDef) HasAlternatingMechanic() bool { return d.Mechanic == MechanicAlternating }
func (d *CardDef) HasProfessionalBonus() bool   { return d.Mechanic == MechanicProfessional }
func (d *CardDef) HasRiskyBonus() bool          { return d.Mechanic == MechanicRisky }
func (d *CardDef) HasParasiteMechanic() bool    { return d.Mechanic == MechanicParasite }

func (d *CardDef) IsPlay() bool   { return d.Category == CategoryPlay }
func (d *CardDef) IsWeapon() bool { return d.Category == CategoryWeapon }
func (d *CardDef) IsHelper() bool { return d.Category == CategoryHelper }
func (d *CardDef) IsAlert() bool  { return d.Category == CategoryAlert }

// EntersPlay reports whether playing the card puts an instance into a slot.
func (d *CardDef) EntersPlay() bool {
	return d.IsPlay() || d.IsPlayWeapon()
}

// --- Catalog ---

var catalog = [cardCount]CardDef{
	// Play cards
	{
		ID: CardOnTheClock, Name: "On the Clock", Category: CategoryPlay,
		HoursPerRound: 1, ExpiresAfterRounds: 5,
		Description: "+1 hour each round, expires after 5 rounds",
	},
	{
		ID: CardProfessional, Name: "Professional", Category: CategoryPlay,
		ExpiresAfterRounds: 9, Mechanic: MechanicProfessional,
		Description: "+10 hours after 8 rounds, expires on the 9th",
	},
	{
		ID: CardRisky, Name: "Risky", Category: CategoryPlay,
		HoursPerRound: 1, ImmediateHours: -5, ExpiresAfterRounds: 9, Mechanic: MechanicRisky,
		Description: "-5 hours now, +1 per round, +8 bonus on the 8th round, expires on the 9th",
	},
	{
		ID: CardSharingIsCaring, Name: "Sharing is Caring", Category: CategoryPlay,
		ExpiresAfterRounds: 9, Mechanic: MechanicSharing,
		Description: "Gains the per-round rate of the next player's in-step cards; void if the linked card expires",
	},
	{
		ID: CardUnpredictable, Name: "Unpredictable", Category: CategoryPlay,
		ExpiresAfterRounds: 9, Mechanic: MechanicAlternating,
		Description: "Alternates +1, -1, 0 each round, expires after 9 rounds",
	},

	// Weapons
	{
		ID: CardTardy, Name: "Tardy", Category: CategoryWeapon,
		Description: "Add 1 round to an opponent's card in play",
	},
	{
		ID: CardDeadline, Name: "Deadline", Category: CategoryWeapon,
		Description: "Immediately expire an opponent's card in play",
	},
	{
		ID: CardStockMarket, Name: "Stock Market", Category: CategoryWeapon,
		HoursPerRound: 1, ImmediateHours: -4, ExpiresAfterRounds: 5,
		Description: "-4 hours to the receiver, +1 per round, expires after 5 rounds",
	},
	{
		ID: CardScammer, Name: "Scammer", Category: CategoryWeapon,
		Description: "Steal 1 hour from a player",
	},
	{
		ID: CardQuit, Name: "Quit", Category: CategoryWeapon,
		Description: "Receiver discards a random card from hand",
	},
	{
		ID: CardParasite, Name: "Parasite", Category: CategoryWeapon,
		HoursPerRound: -1, ImmediateHours: 4, ExpiresAfterRounds: 5, Mechanic: MechanicParasite,
		Description: "You gain 4 hours from the receiver, -1 per round, expires after 5 rounds",
	},
	{
		ID: CardDownsizing, Name: "Downsizing", Category: CategoryWeapon,
		HoursPerRound: 1, ImmediateHours: -4, ExpiresAfterRounds: 5, Mechanic: MechanicRolling,
		Description: "-4 hours to the receiver, +1 per round, passes to the next player when discarded",
	},
	{
		ID: CardForeignExchange, Name: "Foreign Exchange", Category: CategoryWeapon,
		Description: "Trade a random hand card with another player",
	},

	// Helpers
	{
		ID: CardExcused, Name: "Excused", Category: CategoryHelper,
		Description: "Cancel a weapon played against you",
	},
	{
		ID: CardExtension, Name: "Extension", Category: CategoryHelper,
		Description: "Delay the expiration of one of your cards by 5 rounds",
	},
	{
		ID: CardNepotism, Name: "Nepotism", Category: CategoryHelper,
		Description: "Protect one of your cards from expiration; it stops gaining once it would expire",
	},
	{
		ID: CardNewbie, Name: "Newbie", Category: CategoryHelper,
		Description: "Discard your hand and draw a fresh one",
	},

	// Alerts
	{
		ID: CardAmnesia, Name: "Amnesia", Category: CategoryAlert,
		Description: "All cards in play reset to their original values and deadlines",
	},
	{
		ID: CardFired, Name: "Fired!", Category: CategoryAlert,
		Description: "All of the drawing player's cards in play expire",
	},
	{
		ID: CardPerformanceReview, Name: "Performance Review", Category: CategoryAlert,
		Description: "The drawing player discards their hand and redraws",
	},
	{
		ID: CardRecession, Name: "Recession", Category: CategoryAlert,
		Description: "All cards of all players expire",
	},
}

// Get returns the definition for id, or nil for an id outside the catalog.
func Get(id CardID) *CardDef {
	if id < 0 || id >= cardCount {
		return nil
	}
	return &catalog[id]
}

// AllCards returns every catalog entry in catalog order.
func AllCards() []*CardDef {
	defs := make([]*CardDef, 0, cardCount)
	for i := range catalog {
		defs = append(defs, &catalog[i])
	}
	return defs
}

// ExtensionRounds is how many live rounds Extension grants.
const ExtensionRounds = 5
