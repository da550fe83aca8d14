// Command smoke exercises a running server end to end.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("GENEPATH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 2 * time.Minute}

	fmt.Println("Starting smoke test against", baseURL)

	fmt.Println("1. Health check...")
	if !check(client, http.MethodGet, baseURL+"/healthz", nil, http.StatusOK) {
		fmt.Println("FAILED: health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	payload := map[string]interface{}{
		"genes":     "EGFR, KRAS, BRAF, MAPK1, TP53",
		"threshold": 0.7,
	}

	fmt.Println("2. Generating pathway...")
	if !check(client, http.MethodPost, baseURL+"/api/pathway", payload, http.StatusOK) {
		fmt.Println("FAILED: generate pathway")
		os.Exit(1)
	}
	fmt.Println("PASSED: generate pathway")

	fmt.Println("3. Downloading CSV...")
	if !check(client, http.MethodPost, baseURL+"/api/pathway/csv", payload, http.StatusOK) {
		fmt.Println("FAILED: download CSV")
		os.Exit(1)
	}
	fmt.Println("PASSED: download CSV")

	fmt.Println("4. Rejecting a single gene...")
	if !check(client, http.MethodPost, baseURL+"/api/pathway", map[string]string{"genes": "TP53"}, http.StatusUnprocessableEntity) {
		fmt.Println("FAILED: single gene rejection")
		os.Exit(1)
	}
	fmt.Println("PASSED: single gene rejection")
}

func check(client *http.Client, method, url string, payload interface{}, want int) bool {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Unexpected status %d (want %d): %s\n", resp.StatusCode, want, respBody)
		return false
	}
	if len(respBody) > 300 {
		respBody = append(respBody[:300], "..."...)
	}
	fmt.Printf("Response: %s\n", respBody)
	return true
}
