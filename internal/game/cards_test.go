package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogInvariants(t *testing.T) {
	perCategory := make(map[Category]int)
	for _, d := range AllCards() {
		if Get(d.ID) != d {
			t.Errorf("%s: Get returned a different entry", d.Name)
		}
		perCategory[d.Category]++

		wantPlayWeapon := d.Category == CategoryWeapon && d.ExpiresAfterRounds > 0
		if d.IsPlayWeapon() != wantPlayWeapon {
			t.Errorf("%s: IsPlayWeapon = %v", d.Name, d.IsPlayWeapon())
		}
		if d.IsAlert() && d.EntersPlay() {
			t.Errorf("%s: alerts never enter play", d.Name)
		}
	}

	want := map[Category]int{CategoryPlay: 5, CategoryWeapon: 8, CategoryHelper: 4, CategoryAlert: 4}
	for c, n := range want {
		if perCategory[c] != n {
			t.Errorf("%s cards = %d, want %d", c, perCategory[c], n)
		}
	}

	if !Get(CardDownsizing).IsRollingWeapon() || Get(CardStockMarket).IsRollingWeapon() {
		t.Error("only Downsizing rolls")
	}
	if Get(CardTardy).IsPlayWeapon() || !Get(CardParasite).IsPlayWeapon() {
		t.Error("Tardy is immediate, Parasite occupies a slot")
	}
	if Get(cardCount) != nil || Get(-1) != nil {
		t.Error("ids outside the catalog should return nil")
	}
}

func TestLookupCard(t *testing.T) {
	d, err := LookupCard("Sharing is Caring")
	if err != nil || d.ID != CardSharingIsCaring {
		t.Fatalf("LookupCard = %v, %v", d, err)
	}
	d, err = LookupCard("  fired! ")
	if err != nil || d.ID != CardFired {
		t.Fatalf("case-insensitive lookup = %v, %v", d, err)
	}
	if _, err := LookupCard("Overtime"); err == nil {
		t.Fatal("expected an error for an unknown card")
	}
}

func TestStandardDeck(t *testing.T) {
	deck := StandardDeck()
	if len(deck) != 80 {
		t.Fatalf("standard deck = %d cards, want 80", len(deck))
	}
	perCategory := make(map[Category]int)
	for _, id := range deck {
		perCategory[Get(id).Category]++
	}
	want := map[Category]int{CategoryPlay: 32, CategoryWeapon: 24, CategoryHelper: 16, CategoryAlert: 8}
	for c, n := range want {
		if perCategory[c] != n {
			t.Errorf("%s cards = %d, want %d", c, perCategory[c], n)
		}
	}
}

const testDecks = `decks:
  - name: Slow Burn
    cards:
      - name: Professional
        count: 20
      - name: Nepotism
        count: 10
  - name: Chaos
    cards:
      - name: Unpredictable
        count: 15
      - name: Recession
        count: 5
`

func writeDeckFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDeckFile(t *testing.T) {
	path := writeDeckFile(t, testDecks)
	decks, err := ParseDeckFile(path)
	if err != nil {
		t.Fatalf("ParseDeckFile: %v", err)
	}
	if len(decks) != 2 || len(decks["Slow Burn"]) != 30 || len(decks["Chaos"]) != 20 {
		t.Fatalf("decks = %v", decks)
	}

	name, ids, err := DeckByNumber(path, 2)
	if err != nil || name != "Chaos" || ids[len(ids)-1] != CardRecession {
		t.Fatalf("DeckByNumber = %q, %v, %v", name, ids, err)
	}
	if _, _, err := DeckByNumber(path, 3); err == nil {
		t.Error("expected an error for a missing deck number")
	}
}

func TestParseDeckFileErrors(t *testing.T) {
	if _, err := ParseDeckFile(writeDeckFile(t, "decks: [[[")); err == nil {
		t.Error("expected a YAML error")
	}
	bad := "decks:\n  - name: Bad\n    cards:\n      - name: Overtime\n        count: 2\n"
	if _, err := ParseDeckFile(writeDeckFile(t, bad)); err == nil {
		t.Error("expected an unknown card error")
	}
	if _, err := ParseDeckFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected a read error")
	}
}
