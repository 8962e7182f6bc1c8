// Package main mints bearer tokens for calling the trustlink API locally.
// Tokens are signed with the development key unless -key is given and will
// not validate against a server configured with a different JWT_SIGNING_KEY.
package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "trustlink/internal/jwt_token"
	"trustlink/pkg/domain"
)

const (
	// Matches config.go when JWT_SIGNING_KEY is not set.
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultIssuer   = "trustlink"
	defaultAudience = "trustlink-api"
	defaultTokenTTL = time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Principal string            `json:"principal"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	principalFlag := accessCmd.String("principal", "", "Caller principal (0x + 40 hex). Generated if empty.")
	keyFlag := accessCmd.String("key", devSigningKey, "HS256 signing key")
	issuerFlag := accessCmd.String("issuer", defaultIssuer, "Token issuer")
	audienceFlag := accessCmd.String("audience", defaultAudience, "Token audience")
	ttlFlag := accessCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	jsonFlag := accessCmd.Bool("json", false, "Output as JSON")

	principalCmd := flag.NewFlagSet("principal", flag.ExitOnError)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		_ = accessCmd.Parse(os.Args[2:])
		if err := generateAccessToken(*principalFlag, *keyFlag, *issuerFlag, *audienceFlag, *ttlFlag, *jsonFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "principal":
		_ = principalCmd.Parse(os.Args[2:])
		p, err := randomPrincipal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(p.String())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate bearer tokens for the trustlink API

WARNING: tokens use the development signing key by default.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  access      Generate an access token whose subject is a principal
  principal   Print a random principal

Examples:
  tokengen access
  tokengen access -principal 0x00000000000000000000000000000000000000aa -ttl 24h
  tokengen access -json`)
}

func generateAccessToken(rawPrincipal, key, issuer, audience string, ttl time.Duration, asJSON bool) error {
	var (
		principal domain.Principal
		err       error
	)
	if rawPrincipal == "" {
		principal, err = randomPrincipal()
	} else {
		principal, err = domain.ParsePrincipal(rawPrincipal)
	}
	if err != nil {
		return err
	}

	svc := jwttoken.NewJWTService(key, issuer, audience)
	token, err := svc.GenerateAccessToken(principal, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	if !asJSON {
		fmt.Println(token)
		return nil
	}
	out := tokenOutput{
		Token:     token,
		Principal: principal.String(),
		ExpiresIn: ttl.String(),
		Usage: map[string]string{
			"header": "Authorization: Bearer " + token,
			"curl":   "curl -H 'Authorization: Bearer " + token + "' http://localhost:8080/api/verification/me",
		},
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func randomPrincipal() (domain.Principal, error) {
	var p domain.Principal
	if _, err := rand.Read(p[:]); err != nil {
		return p, fmt.Errorf("generate principal: %w", err)
	}
	return p, nil
}
