package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"omnicode-gateway/internal/auth"
	"omnicode-gateway/internal/domain"
)

// Cliente de terminal contra el gateway. Reproduce el contrato del front:
// en cada ronda manda el array completo de historial (con el mensaje nuevo
// como última entrada) más el mensaje aparte, y agrega la respuesta del
// agente al historial local.
func main() {
	_ = godotenv.Load()

	gatewayURL := getenvDefault("GATEWAY_URL", "http://localhost:8080")
	uid := getenvDefault("CHAT_UID", "cli_test")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required to mint a dev token")
	}

	tokens := auth.NewTokenService(secret, time.Hour)
	token, err := tokens.IssueIDToken(uid, "")
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	client := &http.Client{Timeout: 90 * time.Second}
	reader := bufio.NewReader(os.Stdin)
	var history []domain.Message

	fmt.Printf("OmniCode chat (uid=%s). Escribí 'exit' para salir.\n", uid)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == "exit" || text == "salir" {
			return
		}

		history = append(history, domain.Message{
			Role:      domain.RoleUser,
			Text:      text,
			Timestamp: time.Now().UTC(),
			Type:      domain.TypeText,
		})

		reply, err := postChat(client, gatewayURL, token, uid, text, history)
		if err != nil {
			fmt.Printf("[error] %v\n", err)
			continue
		}

		history = append(history, reply)
		fmt.Printf("agent: %s\n", reply.Text)
	}
}

func postChat(client *http.Client, baseURL, token, uid, message string, history []domain.Message) (domain.Message, error) {
	payload := struct {
		History []domain.Message `json:"history"`
		Message string           `json:"message"`
		UID     string           `json:"uid"`
	}{
		History: history,
		Message: message,
		UID:     uid,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.Message{}, err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(baseURL, "/")+"/chat", bytes.NewReader(raw))
	if err != nil {
		return domain.Message{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return domain.Message{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Message{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
			Details string `json:"details"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message != "" {
			return domain.Message{}, fmt.Errorf("gateway %d: %s %s", resp.StatusCode, apiErr.Message, apiErr.Details)
		}
		return domain.Message{}, fmt.Errorf("gateway %d", resp.StatusCode)
	}

	var reply domain.Message
	if err := json.Unmarshal(body, &reply); err != nil {
		return domain.Message{}, err
	}
	return reply, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
