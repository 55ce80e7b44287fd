//go:build ignore

// Smoke run against a local instance: go run scripts/smoke_api.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = "http://localhost:3000/api"

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Pretty print JSON helper
func prettyPrint(raw json.RawMessage) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (int, *envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// The fast path can take a while on a cold model.
	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, &env, nil
}

func step(title, method, url, token string, body interface{}) *envelope {
	color.Yellow("\n%s", title)
	code, env, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if code >= 400 {
		color.Red("Status: %d %s", code, env.Message)
		os.Exit(1)
	}
	color.Green("Status: %d", code)
	prettyPrint(env.Data)
	return env
}

func main() {
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}
	color.Cyan("Starting desk API smoke run against %s", baseURL)

	env := step("[DESK] 1. Open desk", http.MethodPost, "/desks", "", nil)
	var desk struct {
		DeskId string `json:"desk_id"`
	}
	_ = json.Unmarshal(env.Data, &desk)

	step("[DESK] 2. Send first message", http.MethodPost, "/desks/"+desk.DeskId+"/messages", "", map[string]string{
		"text":     "Klient pyta, czy jest możliwość jazdy próbnej w weekend.",
		"language": "pl",
	})

	step("[DESK] 3. Switch stage", http.MethodPut, "/desks/"+desk.DeskId+"/stage", "", map[string]string{"stage": "Analysis"})

	step("[DESK] 4. End session", http.MethodPost, "/desks/"+desk.DeskId+"/end", "", map[string]string{"outcome": "success"})

	step("[DESK] 5. Recent sessions", http.MethodGet, "/desks/recent", "", nil)

	password := os.Getenv("SMOKE_ADMIN_PASSWORD")
	if password == "" {
		color.Cyan("\nSMOKE_ADMIN_PASSWORD not set, skipping admin checks")
		return
	}

	env = step("[ADMIN] 6. Login", http.MethodPost, "/admin/login", "", map[string]string{
		"username": "admin",
		"password": password,
	})
	var login struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(env.Data, &login)

	step("[ADMIN] 7. List nuggets", http.MethodGet, "/admin/nuggets?language=pl", login.AccessToken, nil)
	step("[ADMIN] 8. Feedback groups", http.MethodGet, "/admin/feedback/grouped?language=pl", login.AccessToken, nil)

	color.Cyan("\nSmoke run finished")
}
