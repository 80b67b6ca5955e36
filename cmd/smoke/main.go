// Smoke posts one description to a running server and prints the outcome.
//
//	smoke [--url http://localhost:8080] [--engine sdxl] [--api-key KEY] a red fox in snow
//
// When JWT_SECRET is set a short-lived bearer token is minted for the request.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type options struct {
	url       string
	engine    string
	apiKey    string
	jwtSecret string
	prompt    string
	attempts  int
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Usage: smoke [--url U] [--engine E] [--api-key K] <prompt...>")
		os.Exit(2)
	}
	opts.jwtSecret = os.Getenv("JWT_SECRET")

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("FAILED: %v", err)
	}
}

func parseArgs(args []string) (options, error) {
	opts := options{url: "http://localhost:8080", attempts: 10}
	var words []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--url", "--engine", "--api-key":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a value", args[i])
			}
			switch args[i] {
			case "--url":
				opts.url = strings.TrimRight(args[i+1], "/")
			case "--engine":
				opts.engine = args[i+1]
			case "--api-key":
				opts.apiKey = args[i+1]
			}
			i++
		default:
			words = append(words, args[i])
		}
	}
	opts.prompt = strings.Join(words, " ")
	if opts.prompt == "" {
		return opts, errors.New("prompt is required")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	payload := map[string]any{"prompt": opts.prompt}
	if opts.engine != "" {
		payload["engine"] = opts.engine
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	client := &http.Client{Timeout: 60 * time.Second}

	// Retry loop for server startup; a response of any status ends it.
	var resp *http.Response
	for i := 0; i < opts.attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.url+"/api/v1/generate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if err := authorize(req, opts); err != nil {
			return err
		}

		resp, err = client.Do(req)
		if err == nil {
			break
		}
		log.Printf("Waiting for server... %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	if resp == nil {
		return fmt.Errorf("server at %s did not answer after %d attempts", opts.url, opts.attempts)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(data)
	}

	fmt.Fprintf(out, "Request: %s\n", requestID)
	fmt.Fprintf(out, "Status:  %d\n", resp.StatusCode)
	fmt.Fprintln(out, pretty.String())

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200 OK, got %d", resp.StatusCode)
	}
	return nil
}

func authorize(req *http.Request, opts options) error {
	if opts.apiKey != "" {
		req.Header.Set("X-API-Key", opts.apiKey)
		return nil
	}
	if opts.jwtSecret == "" {
		return nil
	}

	claims := jwt.RegisteredClaims{
		Subject:   "smoke",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(opts.jwtSecret))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
