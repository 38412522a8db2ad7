package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocket_ReceivesBroadcast(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	go server.hub.Run()

	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the client.
	time.Sleep(50 * time.Millisecond)

	server.hub.BroadcastProgress("corpus-stats", "job-1", 42)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg ProgressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "progress" || msg.JobID != "job-1" || msg.Progress != 42 {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestWebSocket_JobProgressEndToEnd(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	go server.hub.Run()

	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	rec, _ := doRequest(t, server, "POST", "/api/v1/jobs/corpus-stats", "")
	if rec.Code != 202 {
		t.Fatalf("job creation status = %d", rec.Code)
	}

	// The stream must end with a completion message for the job.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var msg ProgressMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == "complete" {
			if msg.Operation != "corpus-stats" || msg.Progress != 100 {
				t.Errorf("completion message = %+v", msg)
			}
			return
		}
	}
	t.Fatal("no completion message received")
}
