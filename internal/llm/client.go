package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Roles aceptados por el proveedor generativo.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn es un turno previo de la conversación en la forma que espera el
// proveedor: rol user/model y el texto como única parte de contenido.
type Turn struct {
	Role string
	Text string
}

// Client define la interfaz para continuar un chat con un LLM.
type Client interface {
	Chat(ctx context.Context, history []Turn, message string) (string, error)
}

type logger interface {
	Printf(format string, v ...interface{})
}

// HTTPClient implementa Client contra la API REST estilo Gemini
// (models/{model}:generateContent).
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  logger
}

// NewHTTPClient construye un cliente HTTP apuntando al endpoint generateContent.
func NewHTTPClient(baseURL, apiKey, model string, log any) *HTTPClient {
	l, _ := log.(logger)
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  l,
	}
}

func (c *HTTPClient) Chat(ctx context.Context, history []Turn, message string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != RoleUser {
			role = RoleModel
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: turn.Text}},
		})
	}
	contents = append(contents, content{
		Role:  RoleUser,
		Parts: []part{{Text: message}},
	})

	reqBody := generateRequest{Contents: contents}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Printf("llm error status %d: %s", resp.StatusCode, string(respBody))
		}
		return "", fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if gr.Error != nil {
		return "", fmt.Errorf("llm api error: %s", gr.Error.Message)
	}

	text := gr.text()
	if text == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return text, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// text concatena las partes del primer candidato.
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
