// Package catalog turns lesson modules from the content API into the cards shown on the
// student dashboard.
package catalog

import (
	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/langflag"
)

// Module is a lesson module as returned by the content API.
type Module struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"notblank"`
	langflag.Carrier
}

// Card is what the dashboard renders for a Module.
type Card struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Flag  string `json:"flag"`
}

// NewCard builds the Card of a single Module.
func NewCard(m Module) Card {
	return Card{
		ID:    m.ID,
		Title: core.CleanString(m.Title),
		Flag:  langflag.Resolve(&m.Carrier),
	}
}

// Decorate builds the cards of modules, preserving their order.
func Decorate(modules []Module) []Card {
	cards := make([]Card, 0, len(modules))
	for _, m := range modules {
		cards = append(cards, NewCard(m))
	}
	return cards
}
