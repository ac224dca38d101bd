package game

import (
	"fmt"
	"strings"
)

// CardRegistry maps card names to catalog ids.
var CardRegistry = func() map[string]CardID {
	m := make(map[string]CardID, cardCount)
	for i := range catalog {
		m[catalog[i].Name] = catalog[i].ID
	}
	return m
}()

// LookupCard looks up a card by name. Matching ignores case and surrounding space.
func LookupCard(name string) (*CardDef, error) {
	if id, ok := CardRegistry[name]; ok {
		return Get(id), nil
	}
	want := strings.TrimSpace(name)
	for n, id := range CardRegistry {
		if strings.EqualFold(n, want) {
			return Get(id), nil
		}
	}
	return nil, fmt.Errorf("card not found in registry: %q", name)
}
