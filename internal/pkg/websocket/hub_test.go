package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
)

func TestHubDeliversEventsToListeners(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Close()

	ch := make(chan *Event, 1)
	hub.AddListener(ch)

	hub.Publish("notice.created", map[string]int{"id": 7})

	select {
	case ev := <-ch:
		if ev.Type != "notice.created" {
			t.Errorf("type = %q", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener never received the event")
	}
}

func TestPublishAfterCloseDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("notice.deleted", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a closed hub")
	}
}

func TestWebsocketClientReceivesBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Close()

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		auth.SetPrincipal(c, &auth.Principal{ID: "PFX2025001", Role: models.RoleStudent})
	}, NewHandler(hub, []string{"*"}, zerolog.Nop()).HandleConnection)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish("notice.updated", map[string]string{"title": "Water outage"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != "notice.updated" {
		t.Errorf("type = %q", ev.Type)
	}
}
