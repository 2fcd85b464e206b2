package models

import (
	"time"
)

// Message is one persisted chat message. Rows are append-only: a row
// exists for every accepted chat event, whether or not delivery to the
// receiver succeeded.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Sender    string    `json:"sender" gorm:"index"`
	Receiver  string    `json:"receiver" gorm:"index"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}
