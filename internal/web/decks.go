package web

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/procrastination/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
// Number 0 is the built-in standard deck.
type DeckInfo struct {
	Number int         `json:"number"`
	Name   string      `json:"name"`
	Size   int         `json:"size"`
	Cards  []DeckCount `json:"cards"`
}

// DeckCount is one line of a deck list.
type DeckCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func parseDeckFileYAML(data []byte) (game.DeckFile, error) {
	var df game.DeckFile
	err := yaml.Unmarshal(data, &df)
	return df, err
}

// deckInfos lists the standard deck followed by the decks in the decks file.
func (s *Server) deckInfos() ([]DeckInfo, error) {
	decks := []DeckInfo{standardDeckInfo()}
	if s.decksFile == "" {
		return decks, nil
	}

	data, err := os.ReadFile(s.decksFile)
	if err != nil {
		return nil, err
	}
	df, err := parseDeckFileYAML(data)
	if err != nil {
		return nil, err
	}

	for i, d := range df.Decks {
		di := DeckInfo{Number: i + 1, Name: d.Name}
		for _, c := range d.Cards {
			di.Cards = append(di.Cards, DeckCount{Name: c.Name, Count: c.Count})
			di.Size += c.Count
		}
		decks = append(decks, di)
	}
	return decks, nil
}

func standardDeckInfo() DeckInfo {
	di := DeckInfo{Name: game.StandardDeckName}
	for _, e := range game.StandardDeckEntries {
		di.Cards = append(di.Cards, DeckCount{Name: e.Name, Count: e.Count})
		di.Size += e.Count
	}
	return di
}
