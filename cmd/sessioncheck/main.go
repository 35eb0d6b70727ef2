// Command sessioncheck signs a session token with SESSION_JWT_SECRET (or takes one from
// SESSION_TOKEN) and calls a running voteguard server with it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"voteguard/internal/config"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "voteguard base URL")
	userID := flag.String("user", "", "session subject (user id)")
	ttl := flag.Duration("ttl", time.Hour, "lifetime of a signed token")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Usage: sessioncheck -user <id> [-server URL]")
		os.Exit(2)
	}

	token := os.Getenv("SESSION_TOKEN")
	if token == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.SessionJWTSecret == "" {
			fmt.Println("Set SESSION_TOKEN, or SESSION_JWT_SECRET to sign one")
			os.Exit(1)
		}

		token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": *userID,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(*ttl).Unix(),
		}).SignedString([]byte(cfg.SessionJWTSecret))
		if err != nil {
			fmt.Printf("Error signing token: %v\n", err)
			os.Exit(1)
		}
	}

	url := strings.TrimRight(*server, "/") + "/api/v1/voters/" + *userID + "/elections"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(body))

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Println("\nSession accepted.")
	case http.StatusUnauthorized, http.StatusForbidden:
		var result struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &result)
		fmt.Printf("\nSession refused: %s\n", result.Error.Message)
		os.Exit(1)
	}
}
