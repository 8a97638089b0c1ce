package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/payslice/sms-relay/internal/event"
)

// send-test-event posts a synthetic event to a running api-server. Development
// tool only.
func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "api server base URL")
		token     = flag.String("token", "", "bearer token")
		eventType = flag.String("event", "advance_approved", "event type")
		eventID   = flag.String("event-id", "", "event id (random when empty)")
		phone     = flag.String("phone", "+15555550123", "recipient phone in E.164")
		amount    = flag.Float64("amount", 185.0, "advance amount")
		sendNow   = flag.Bool("send-now", false, "also send the immediate in-transit text")
	)
	flag.Parse()

	id := *eventID
	if id == "" {
		id = uuid.New().String()
	}

	amt := *amount
	ev := event.InboundEvent{
		Event:            event.Type(*eventType),
		EventID:          id,
		User:             event.User{Phone: *phone},
		Amount:           &amt,
		SendInTransitNow: *sendNow,
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal event: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *serverURL+"/v1/events", bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("event_id: %s\n", id)
	fmt.Printf("status:   %s\n", resp.Status)
	fmt.Printf("body:     %s\n", body)

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
