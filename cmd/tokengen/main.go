// Package main provides a CLI tool for generating caller tokens for the tourmint API.
// These tokens use the dev signing key unless -key is given and must not be used in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"tourmint/internal/identity"
	id "tourmint/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	Subject   string            `json:"subject"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	callerCmd := flag.NewFlagSet("caller", flag.ExitOnError)
	subject := callerCmd.String("subject", "ST1TEST", "Principal placed in the sub claim")
	ttl := callerCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	key := callerCmd.String("key", "", "Signing key (defaults to JWT_SIGNING_KEY, then the dev key)")
	jsonOutput := callerCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "caller":
		_ = callerCmd.Parse(os.Args[2:])
		generateCallerToken(*subject, *ttl, resolveKey(*key), *jsonOutput)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate caller tokens for the tourmint API

WARNING: Tokens signed with the dev key will NOT work against a configured deployment.

Usage:
  tokengen <command> [flags]

Commands:
  caller    Generate a bearer token for a principal

Examples:
  # Token for the default contract owner
  tokengen caller

  # Token for an issuing institution, valid for an hour
  tokengen caller -subject ST1MUSEUM -ttl 1h

  # Output as JSON
  tokengen caller -subject ST1MUSEUM -json`)
}

func resolveKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("JWT_SIGNING_KEY"); env != "" {
		return env
	}
	return devSigningKey
}

func generateCallerToken(rawSubject string, ttl time.Duration, signingKey string, jsonOutput bool) {
	subject, err := id.ParseIdentity(rawSubject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid subject %q: %v\n", rawSubject, err)
		os.Exit(1)
	}

	svc := identity.NewService(signingKey, identity.DefaultIssuer, ttl)
	token, err := svc.IssueToken(context.Background(), subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "bearer",
			Subject:   subject.String(),
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Caller Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Subject:    %s\n", subject)
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/registry")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
