// Command demo is an interactive harness for the honeypot endpoint: each
// stdin line is sent as a scammer message with the accumulated conversation
// history, so multi-turn engagement and the final report can be exercised
// by hand.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type chatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type requestPayload struct {
	SessionID           string        `json:"sessionId"`
	Message             chatMessage   `json:"message"`
	ConversationHistory []chatMessage `json:"conversationHistory"`
}

func main() {
	var (
		serverURL string
		apiKey    string
		sessionID string
		sender    string
	)

	root := &cobra.Command{
		Use:   "demo",
		Short: "Interactive harness for the scam honeypot endpoint",
		Long: "Reads messages from stdin and posts each one to POST /honeypot as the\n" +
			"scammer, carrying the full conversation history so the server sees an\n" +
			"ever-growing transcript.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("SECRET_API_KEY")
			}
			if apiKey == "" {
				return fmt.Errorf("an API key is required (--api-key or SECRET_API_KEY)")
			}

			client := &http.Client{Timeout: 2 * time.Minute}
			history := []chatMessage{}

			fmt.Printf("Session ID: %s\n", sessionID)
			fmt.Println("Type a scam message and press enter (Ctrl-D to quit).")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				text := scanner.Text()
				if text == "" {
					continue
				}

				message := chatMessage{Sender: sender, Text: text, Timestamp: time.Now().Unix()}
				body, err := json.Marshal(requestPayload{
					SessionID:           sessionID,
					Message:             message,
					ConversationHistory: history,
				})
				if err != nil {
					return err
				}

				req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, serverURL+"/honeypot", bytes.NewReader(body))
				if err != nil {
					return err
				}
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("x-api-key", apiKey)

				resp, err := client.Do(req)
				if err != nil {
					fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
					continue
				}

				var pretty bytes.Buffer
				var raw json.RawMessage
				if err := json.NewDecoder(resp.Body).Decode(&raw); err == nil {
					if json.Indent(&pretty, raw, "", "  ") == nil {
						fmt.Printf("HTTP %d\n%s\n", resp.StatusCode, pretty.String())
					}
				}
				resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					continue
				}

				history = append(history, message)
				var parsed struct {
					Reply string `json:"reply"`
				}
				if json.Unmarshal(raw, &parsed) == nil && parsed.Reply != "" {
					history = append(history, chatMessage{Sender: "victim", Text: parsed.Reply, Timestamp: time.Now().Unix()})
				}
			}
			return scanner.Err()
		},
	}

	root.Flags().StringVar(&serverURL, "server", "http://127.0.0.1:8000", "honeypot server base URL")
	root.Flags().StringVar(&apiKey, "api-key", "", "shared API key (defaults to SECRET_API_KEY)")
	root.Flags().StringVar(&sessionID, "session", "session-"+uuid.NewString(), "session identifier")
	root.Flags().StringVar(&sender, "sender", "scammer", "sender label for outgoing messages")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
