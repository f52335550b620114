package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	baseURL   = flag.String("base", "http://localhost:8080", "http base url")
	wsURL     = flag.String("ws", "ws://localhost:8080/ws", "websocket url")
	pairCount = flag.Int("pairs", 50, "number of matched pairs")
	msgCount  = flag.Int("messages", 20, "messages per user")
)

type authResponse struct {
	Token    string `json:"access_token"`
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type receiveFrame struct {
	Type    string `json:"type"`
	Message struct {
		ID       int    `json:"id"`
		SenderID int    `json:"sender_id"`
		Content  string `json:"content"`
	} `json:"message"`
}

var outOfOrder atomic.Int64

func main() {
	flag.Parse()
	log.Printf("starting load test: %d pairs, %d messages each", *pairCount, *msgCount)

	var wg sync.WaitGroup
	for i := 0; i < *pairCount; i++ {
		wg.Add(1)
		go func(pairID int) {
			defer wg.Done()
			runPair(pairID)
		}(i)
	}
	wg.Wait()

	if n := outOfOrder.Load(); n > 0 {
		log.Fatalf("FAIL: %d messages observed out of id order", n)
	}
	log.Println("load test complete: all receives in id order")
}

func runPair(pairID int) {
	suffix := time.Now().UnixNano()
	a := authenticate(fmt.Sprintf("lt_%d_a_%d", pairID, suffix), "password123")
	b := authenticate(fmt.Sprintf("lt_%d_b_%d", pairID, suffix), "password123")
	if a == nil || b == nil {
		return
	}

	if !createMatch(a.Token, b.ID) {
		return
	}

	// Each side sends msgCount and expects 2*msgCount receives (both
	// directions, no self-exclusion).
	var wsWg sync.WaitGroup
	wsWg.Add(2)
	go chatSession(&wsWg, a, b.ID)
	go chatSession(&wsWg, b, a.ID)
	wsWg.Wait()
}

func chatSession(wg *sync.WaitGroup, self *authResponse, peerID int) {
	defer wg.Done()

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?token=%s", *wsURL, self.Token), nil)
	if err != nil {
		log.Printf("ws connect failed [%s]: %v", self.Username, err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "join", "peer_id": peerID}); err != nil {
		log.Printf("join failed [%s]: %v", self.Username, err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		lastID := 0
		total := 2 * (*msgCount)
		for received := 0; received < total; {
			conn.SetReadDeadline(time.Now().Add(30 * time.Second))
			var frame receiveFrame
			if err := conn.ReadJSON(&frame); err != nil {
				log.Printf("read failed [%s] after %d frames: %v", self.Username, received, err)
				return
			}
			if frame.Type != "receive" {
				continue
			}
			if frame.Message.ID <= lastID {
				outOfOrder.Add(1)
			}
			lastID = frame.Message.ID
			received++
		}
	}()

	for i := 0; i < *msgCount; i++ {
		err := conn.WriteJSON(map[string]any{
			"type":        "send",
			"receiver_id": peerID,
			"content":     fmt.Sprintf("msg %d from %s", i, self.Username),
		})
		if err != nil {
			log.Printf("send failed [%s]: %v", self.Username, err)
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	<-done
}

func authenticate(username, password string) *authResponse {
	body := map[string]string{"username": username, "password": password}
	if _, err := postJSON("/register", body); err != nil {
		log.Printf("register failed [%s]: %v", username, err)
		return nil
	}

	resp, err := postJSON("/login", body)
	if err != nil {
		log.Printf("login failed [%s]: %v", username, err)
		return nil
	}
	defer resp.Body.Close()

	var data authResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || data.Token == "" {
		log.Printf("login response invalid [%s]: %v", username, err)
		return nil
	}
	data.Username = username
	return &data
}

func createMatch(token string, targetID int) bool {
	jsonBody, _ := json.Marshal(map[string]int{"targetUserId": targetID})
	req, _ := http.NewRequest("POST", *baseURL+"/api/match", bytes.NewBuffer(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Printf("create match failed: %v", err)
		return false
	}
	resp.Body.Close()
	return true
}

func postJSON(endpoint string, data any) (*http.Response, error) {
	jsonData, _ := json.Marshal(data)
	return http.Post(*baseURL+endpoint, "application/json", bytes.NewBuffer(jsonData))
}
