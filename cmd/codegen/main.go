// Package main provides a CLI tool for minting check-in codes and rendering
// their QR images, for host-stand printouts and local testing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"brigade/internal/checkin/qr"
	"brigade/internal/checkin/service"
	"brigade/internal/checkin/store"
	"brigade/internal/platform/config"
	"brigade/internal/platform/database"
	"brigade/pkg/secrets"
)

type issueOutput struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	ValidUntil time.Time `json:"valid_until"`
	Location   string    `json:"location,omitempty"`
	QRFile     string    `json:"qr_file,omitempty"`
}

func main() {
	cfg := config.FromEnv()

	issueCmd := flag.NewFlagSet("issue", flag.ExitOnError)
	issueDB := issueCmd.String("db", cfg.DatabaseURL, "Postgres URL. Defaults to BRIGADE_DATABASE_URL.")
	issueTTL := issueCmd.Duration("ttl", cfg.DefaultCodeTTL, "Validity window for the new code")
	issueLocation := issueCmd.String("location", "", "Optional location tag")
	issueQR := issueCmd.String("qr", "", "Write the QR image to this PNG file")
	issueJSON := issueCmd.Bool("json", false, "Output as JSON")

	qrCmd := flag.NewFlagSet("qr", flag.ExitOnError)
	qrCode := qrCmd.String("code", "", "Scan code to render (required)")
	qrOut := qrCmd.String("out", "code.png", "Output PNG file")
	qrSize := qrCmd.Int("size", 256, "Image edge length in pixels")

	hashCmd := flag.NewFlagSet("hash-token", flag.ExitOnError)
	hashToken := hashCmd.String("token", "", "Admin token to hash (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "issue":
		issueCmd.Parse(os.Args[2:])
		issueCode(*issueDB, *issueTTL, *issueLocation, *issueQR, *issueJSON)
	case "qr":
		qrCmd.Parse(os.Args[2:])
		renderQR(*qrCode, *qrOut, *qrSize)
	case "hash-token":
		hashCmd.Parse(os.Args[2:])
		hashAdminToken(*hashToken)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`codegen - Mint check-in codes and render QR images

Usage:
  codegen <command> [flags]

Commands:
  issue       Mint a check-in code against the database
  qr          Render an existing scan code as a QR PNG
  hash-token  Hash an admin token for BRIGADE_ADMIN_TOKEN_HASH

Examples:
  # Mint a code valid for the rest of the evening and print a QR ticket
  codegen issue -ttl 6h -location patio -qr ticket.png

  # Re-render a QR for an already issued code
  codegen qr -code "Yy3kq9XfT2wN8rLpV5mZbQ" -out ticket.png

  # Produce the bcrypt hash the server expects for admin auth
  codegen hash-token -token "my-admin-token"

Use "codegen <command> -h" for more information about a command.`)
}

func issueCode(dbURL string, ttl time.Duration, location, qrFile string, jsonOutput bool) {
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "Database URL required: set -db or BRIGADE_DATABASE_URL")
		os.Exit(1)
	}
	if ttl <= 0 {
		fmt.Fprintln(os.Stderr, "TTL must be positive")
		os.Exit(1)
	}

	ctx := context.Background()

	poolCfg := database.DefaultConfig()
	poolCfg.URL = dbURL
	pool, err := database.New(poolCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool.DB()); err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating database: %v\n", err)
		os.Exit(1)
	}

	svc := service.New(store.NewPostgres(pool.DB()))
	c, err := svc.Issue(ctx, time.Now().Add(ttl), location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error issuing code: %v\n", err)
		os.Exit(1)
	}

	if qrFile != "" {
		writeQR(c.Code, qrFile, 256)
	}

	if jsonOutput {
		printJSON(issueOutput{
			ID:         c.ID.String(),
			Code:       c.Code,
			ValidUntil: c.ValidUntil,
			Location:   c.Location,
			QRFile:     qrFile,
		})
		return
	}

	fmt.Println("Check-in Code")
	fmt.Println("=============")
	fmt.Printf("ID:          %s\n", c.ID)
	fmt.Printf("Code:        %s\n", c.Code)
	fmt.Printf("Valid Until: %s\n", c.ValidUntil.Format(time.RFC3339))
	if c.Location != "" {
		fmt.Printf("Location:    %s\n", c.Location)
	}
	if qrFile != "" {
		fmt.Printf("QR Image:    %s\n", qrFile)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -X POST -d '{\"code\":\"" + c.Code + "\"}' http://localhost:8080/checkin/redeem")
}

func renderQR(code, out string, size int) {
	if code == "" {
		fmt.Fprintln(os.Stderr, "Scan code required: set -code")
		os.Exit(1)
	}
	writeQR(code, out, size)
	fmt.Printf("QR image written to %s\n", out)
}

func writeQR(code, file string, size int) {
	png, err := qr.NewEncoder().EncodePNG(code, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering QR: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(file, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", file, err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func hashAdminToken(token string) {
	if token == "" {
		fmt.Fprintln(os.Stderr, "Token required: set -token")
		os.Exit(1)
	}
	hash, err := secrets.Hash(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
