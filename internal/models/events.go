package models

// Client event types sent by the browser over the websocket
const (
	EventKey    = "key"
	EventClick  = "click"
	EventChange = "change"
)

// Key actions
const (
	KeyDown = "keydown"
	KeyUp   = "keyup"
)

// ClientEvent represents one event raised in the browser
type ClientEvent struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Action string `json:"action,omitempty"`
	Repeat bool   `json:"repeat,omitempty"`
	Target int    `json:"target,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Server message types pushed to the browser
const (
	MessageUpdate = "update"
	MessageStyle  = "style"
	MessageReload = "reload"
)

// ElementUpdate carries the re-rendered outer HTML of one element
type ElementUpdate struct {
	ID   int    `json:"id"`
	HTML string `json:"html"`
}

// ServerMessage represents one push from the server to a page
type ServerMessage struct {
	Type    string          `json:"type"`
	Updates []ElementUpdate `json:"updates,omitempty"`
	CSS     string          `json:"css,omitempty"`
}
