package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Registra lo recibido
// en cada invocación para poder inspeccionar historial y mensaje.
type MockClient struct {
	Response string
	Err      error

	Calls        int
	LastHistory  []Turn
	LastMessage  string
	ResponseFunc func(history []Turn, message string) (string, error)
}

func (m *MockClient) Chat(_ context.Context, history []Turn, message string) (string, error) {
	m.Calls++
	m.LastHistory = append([]Turn(nil), history...)
	m.LastMessage = message
	if m.ResponseFunc != nil {
		return m.ResponseFunc(history, message)
	}
	return m.Response, m.Err
}
