package models

import "time"

// StorageEntry represents one persisted session value
type StorageEntry struct {
	SessionID string    `json:"sessionId"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StorageFile represents the root structure of the JSON storage file
type StorageFile struct {
	Sessions map[string]map[string]string `json:"sessions"`
}

// DeckState describes the navigation state of one deck page
type DeckState struct {
	Slide  int `json:"slide"`
	Step   int `json:"step"`
	Slides int `json:"slides"`
	Steps  int `json:"steps"`
}
