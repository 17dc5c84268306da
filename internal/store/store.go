package store

import (
	"time"

	"github.com/jpalmerr/livestatus/mapping"
)

// Panel is the display state of one status source.
//
// A panel starts out unloaded ("Loading...") and becomes loaded with the
// first successful fetch. Failed fetches never produce a panel update.
type Panel struct {
	// Name is the source's display name.
	Name string `json:"name"`

	// URL is the status endpoint of the source.
	URL string `json:"url"`

	// Labels contains key-value metadata of the source.
	Labels map[string]string `json:"labels"`

	// Loaded is false until the first successful fetch.
	Loaded bool `json:"loaded"`

	// Entries are the rendered fields of the latest status document.
	Entries []mapping.Entry `json:"entries"`

	// UpdatedAt is when the entries were fetched. Zero while loading.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for storing panels and subscribing to changes.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Register adds a panel if no panel with the same name exists and fixes
	// its display position. It does not notify subscribers.
	Register(panel Panel)

	// Update replaces the panel with the same name and notifies subscribers.
	// Unknown names are appended after the registered panels.
	Update(panel Panel)

	// GetAll returns a snapshot of all panels in display order.
	GetAll() []Panel

	// Subscribe returns a channel that receives panel updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Panel

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Panel)
}
