package service

import (
	"omnicode-gateway/internal/domain"
	"omnicode-gateway/internal/llm"
)

// DefaultSystemInstruction es la persona del agente cuando no se configura otra.
const DefaultSystemInstruction = `You are the OmniCode Agent, an expert programming assistant. ` +
	`Your primary function is to analyze the user's provided code block and explain it in detail, focusing on how it works, its purpose, and best practices. ` +
	`Keep your explanations concise, professional, and markdown-formatted. ` +
	`If a user asks a general question, answer briefly and guide them to provide a code block.`

// preambleAck es el turno de modelo fijo que cierra el preámbulo de persona.
const preambleAck = "Understood. I am the OmniCode Agent."

// FilterHistory deja fuera los mensajes informativos (welcome/status) y mapea
// el resto a la forma del proveedor: rol user se conserva, todo lo demás pasa
// a model, con el texto como única parte. Pura y estable en el orden.
func FilterHistory(history []domain.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(history))
	for _, msg := range history {
		if msg.Type == domain.TypeWelcomeMessage || msg.Type == domain.TypeStatusMessage {
			continue
		}
		role := llm.RoleModel
		if msg.Role == domain.RoleUser {
			role = llm.RoleUser
		}
		turns = append(turns, llm.Turn{Role: role, Text: msg.Text})
	}
	return turns
}

// SeedContext arma el contexto previo para el modelo. Con historial filtrado
// no vacío, todo menos el último turno (el mensaje recién enviado viaja
// aparte como turno nuevo). Vacío, un preámbulo fijo de dos turnos para que
// la primera ronda de cualquier sesión lleve el framing del sistema.
func SeedContext(filtered []llm.Turn, systemInstruction string) []llm.Turn {
	if len(filtered) > 0 {
		return filtered[:len(filtered)-1]
	}
	if systemInstruction == "" {
		systemInstruction = DefaultSystemInstruction
	}
	return []llm.Turn{
		{Role: llm.RoleUser, Text: "Context: " + systemInstruction},
		{Role: llm.RoleModel, Text: preambleAck},
	}
}
