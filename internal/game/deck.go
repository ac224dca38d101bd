package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// StandardDeckName is the name of the built-in 80-card deck.
const StandardDeckName = "Standard"

// StandardDeckEntries is the fixed card distribution of the standard deck:
// 32 play, 24 weapon, 16 helper and 8 alert cards.
var StandardDeckEntries = []CardEntry{
	{Name: "On the Clock", Count: 10},
	{Name: "Professional", Count: 6},
	{Name: "Risky", Count: 6},
	{Name: "Sharing is Caring", Count: 5},
	{Name: "Unpredictable", Count: 5},

	{Name: "Tardy", Count: 4},
	{Name: "Deadline", Count: 4},
	{Name: "Scammer", Count: 4},
	{Name: "Quit", Count: 3},
	{Name: "Foreign Exchange", Count: 1},
	{Name: "Stock Market", Count: 3},
	{Name: "Parasite", Count: 3},
	{Name: "Downsizing", Count: 2},

	{Name: "Excused", Count: 6},
	{Name: "Extension", Count: 5},
	{Name: "Nepotism", Count: 3},
	{Name: "Newbie", Count: 2},

	{Name: "Amnesia", Count: 3},
	{Name: "Fired!", Count: 2},
	{Name: "Performance Review", Count: 2},
	{Name: "Recession", Count: 1},
}

// StandardDeck returns the card ids of the standard deck in catalog order.
func StandardDeck() []CardID {
	ids, err := BuildDeck(StandardDeckEntries)
	if err != nil {
		panic(err)
	}
	return ids
}

// BuildDeck expands card entries into a flat list of card ids.
func BuildDeck(entries []CardEntry) ([]CardID, error) {
	var ids []CardID
	for _, entry := range entries {
		def, err := LookupCard(entry.Name)
		if err != nil {
			return nil, err
		}
		if entry.Count < 0 {
			return nil, fmt.Errorf("card %q: negative count %d", entry.Name, entry.Count)
		}
		for i := 0; i < entry.Count; i++ {
			ids = append(ids, def.ID)
		}
	}
	return ids, nil
}

func readDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// ParseDeckFile parses a YAML deck file and returns a map of deck name → card ids.
func ParseDeckFile(path string) (map[string][]CardID, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}

	decks := make(map[string][]CardID)
	for _, deck := range df.Decks {
		ids, err := BuildDeck(deck.Cards)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", deck.Name, err)
		}
		decks[deck.Name] = ids
	}

	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (string, []CardID, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return "", nil, err
	}

	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}

	deck := df.Decks[n-1]
	ids, err := BuildDeck(deck.Cards)
	if err != nil {
		return "", nil, fmt.Errorf("deck %q: %w", deck.Name, err)
	}

	return deck.Name, ids, nil
}
