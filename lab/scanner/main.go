// Command scanner is a toy door-kiosk simulator. It reads scan codes from
// stdin (one per line, the way a USB barcode scanner types them) and submits
// each to the check-in service, printing whether the guest gets in.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type scanResult struct {
	Status           string `json:"status"`
	Location         string `json:"location"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func main() {
	baseURL := getenv("BASE_URL", "http://localhost:8080")
	client := &http.Client{Timeout: 5 * time.Second}

	log.Printf("kiosk scanner pointed at %s, paste codes and press enter", baseURL)

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		code := strings.TrimSpace(in.Text())
		if code == "" {
			continue
		}
		scan(client, baseURL, code)
	}
	if err := in.Err(); err != nil {
		log.Fatalf("stdin read failed: %v", err)
	}
}

func scan(client *http.Client, baseURL, code string) {
	resp, err := client.Get(baseURL + "/checkin/scan?code=" + url.QueryEscape(code))
	if err != nil {
		fmt.Printf("  !! service unreachable: %v\n", err)
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		fmt.Printf("  !! bad response: %v\n", err)
		return
	}

	var res scanResult
	if err := json.Unmarshal(body, &res); err != nil {
		fmt.Printf("  !! unexpected body: %s\n", body)
		return
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		where := res.Location
		if where == "" {
			where = "anywhere"
		}
		fmt.Printf("  >> WELCOME IN (%s)\n", where)
	case res.Error == "already_redeemed":
		fmt.Println("  >> ALREADY USED, turn guest away")
	case res.Error == "expired":
		fmt.Println("  >> EXPIRED, send guest to the host stand")
	case res.Error == "disabled":
		fmt.Println("  >> DISABLED by management")
	case res.Error == "not_found":
		fmt.Println("  >> UNKNOWN CODE")
	default:
		fmt.Printf("  >> REFUSED (%d): %s\n", resp.StatusCode, res.ErrorDescription)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
