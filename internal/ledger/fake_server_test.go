package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
)

// handlerFunc answers one request. Returning nil sends nothing.
type handlerFunc func(req map[string]any) map[string]any

// fakeRippled is an in-process WebSocket server speaking the rippled
// request/response envelope.
type fakeRippled struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader
	handler  handlerFunc

	accepted atomic.Int64
	mu       sync.Mutex
	conns    []*websocket.Conn
}

func newFakeRippled(t *testing.T, handler handlerFunc) *fakeRippled {
	t.Helper()
	f := &fakeRippled{handler: handler}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(func() {
		f.dropAll()
		f.srv.Close()
	})
	return f
}

func (f *fakeRippled) URL() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeRippled) serve(w http.ResponseWriter, r *http.Request) {
	f.accepted.Add(1)
	ws, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conns = append(f.conns, ws)
	f.mu.Unlock()

	var writeMu sync.Mutex
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var req map[string]any
		if err := json.Unmarshal(data, &req); err != nil {
			continue
		}
		go func() {
			resp := f.handler(req)
			if resp == nil {
				return
			}
			resp["id"] = req["id"]
			if _, ok := resp["type"]; !ok {
				resp["type"] = "response"
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = ws.WriteJSON(resp)
		}()
	}
}

func (f *fakeRippled) openConns() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// dropAll closes every accepted connection from the server side.
func (f *fakeRippled) dropAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		_ = c.Close()
	}
	f.conns = nil
}

func success(result map[string]any) map[string]any {
	return map[string]any{"status": "success", "result": result}
}

func rpcFailure(token string, code int, message string) map[string]any {
	return map[string]any{
		"status":        "error",
		"error":         token,
		"error_code":    code,
		"error_message": message,
	}
}
