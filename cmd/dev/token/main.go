package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rental/pkg/config"
	"rental/pkg/session"
)

// Prints a bearer token for local testing:
//
//	go run ./cmd/dev/token -user host-ana
func main() {
	cfg := config.Load()

	user := flag.String("user", "", "user id to put in the token subject")
	ttl := flag.Duration("ttl", cfg.JWT.TTL, "token lifetime")
	flag.Parse()

	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	tok, err := session.Issue(*user, cfg.JWT.Secret, cfg.JWT.Issuer, *ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
