// Package queue defines message payloads exchanged over the message broker.
package queue

// DishViewedEvent is published whenever the storefront records a dish view.
// It carries enough context for downstream consumers to log or feed analytics
// without querying the primary database.  The database insert remains the
// source of truth; this event is enrichment only.
type DishViewedEvent struct {
	DishID      uint64 `json:"dish_id"`
	DishName    string `json:"dish_name"`
	CountryName string `json:"country_name"`
	Category    string `json:"category"`
	IPAddress   string `json:"ip_address,omitempty"`
	ViewedAt    string `json:"viewed_at"`
}
