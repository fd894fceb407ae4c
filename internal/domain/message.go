package domain

import "time"

// Roles de los participantes de la conversación.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Tipos de mensaje. Los informativos (welcome/status) viven solo en el
// transcript persistido y nunca se envían al modelo.
const (
	TypeText           = "text"
	TypeWelcomeMessage = "welcome_message"
	TypeStatusMessage  = "status_message"
	TypeExplainCommand = "explain-command"
	TypeError          = "error"
	TypeAIResponse     = "ai_response"
)

// Message es un turno de la conversación tal como viaja por el wire y se
// persiste en el Session Store. Timestamp serializa como RFC3339.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type,omitempty"`
}
