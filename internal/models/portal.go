package models

import "time"

// PortalMessage is a message exchanged through the client portal.
// Unread client-initiated messages feed the alert aggregator.
type PortalMessage struct {
	ID         string    `db:"id" json:"id"`
	ClientID   string    `db:"client_id" json:"client_id"`
	Body       string    `db:"body" json:"body"`
	FromClient bool      `db:"from_client" json:"from_client"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
