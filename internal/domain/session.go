package domain

import "time"

// Session es el documento de conversación de un usuario, uno por uid.
// El historial es el array completo que el front envía en cada ronda;
// UpdatedAt lo asigna siempre el servidor al escribir.
type Session struct {
	UserID    string    `json:"userId"`
	History   []Message `json:"history"`
	UpdatedAt time.Time `json:"updatedAt"`
}
