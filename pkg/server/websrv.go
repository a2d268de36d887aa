package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayfarer-mud/wayfarer/pkg/events"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// WebConfig holds configuration for the web server.
type WebConfig struct {
	Port        int
	Host        string
	CORSOrigins []string
}

// WebServer provides WebSocket transport plus health and metrics
// endpoints alongside the TCP server.
type WebServer struct {
	server    *Server
	httpSrv   *http.Server
	mux       *http.ServeMux
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewWebServer creates a web listener bound to the TCP server's game.
func NewWebServer(s *Server, cfg WebConfig) *WebServer {
	ws := &WebServer{
		server:    s,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(cfg.CORSOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, o := range cfg.CORSOrigins {
					if strings.EqualFold(o, origin) {
						return true
					}
				}
				return false
			},
		},
	}

	ws.mux.HandleFunc("GET /ws", ws.handleWebSocket)
	ws.mux.HandleFunc("GET /health", ws.handleHealth)
	if s.Game.Metrics != nil {
		ws.mux.Handle("GET /metrics", s.Game.Metrics.Handler())
	}

	ws.httpSrv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ws.mux,
	}
	return ws
}

// Start serves HTTP until Stop is called.
func (ws *WebServer) Start() error {
	log.Printf("WEB: Listening (http) on %s", ws.httpSrv.Addr)
	err := ws.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the HTTP server down gracefully.
func (ws *WebServer) Stop(ctx context.Context) error {
	return ws.httpSrv.Shutdown(ctx)
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"uptime":  time.Since(ws.startTime).Seconds(),
		"players": ws.server.Game.World.PlayerCount(),
	})
}

// WSMessage is the JSON frame format for WebSocket communication.
type WSMessage struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Command string         `json:"command,omitempty"`
}

// wsConn holds the WebSocket connection and its write mutex.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (wc *wsConn) sendJSON(msg WSMessage) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	wc.conn.WriteJSON(msg)
}

// handleWebSocket upgrades the connection and hands it a descriptor
// whose send and receive paths speak JSON frames.
func (ws *WebServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	remoteAddr := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			remoteAddr = strings.TrimSpace(xff[:idx])
		} else {
			remoteAddr = strings.TrimSpace(xff)
		}
	}

	d, wc := newWSDescriptor(ws.server, conn, remoteAddr)
	ws.server.Conns.Add(d)
	log.Printf("[ws:%d] New connection from %s", d.ID, d.Addr)

	wc.sendJSON(WSMessage{
		Type: "welcome",
		Text: `Connected. Send {"type":"login","command":"connect name password"} to authenticate.`,
	})

	go wsReadLoop(ws, d, wc)
}

// newWSDescriptor creates a Descriptor configured for WebSocket
// transport: sends and bus events both encode as JSON frames.
func newWSDescriptor(s *Server, conn *websocket.Conn, addr string) (*Descriptor, *wsConn) {
	wc := &wsConn{conn: conn}
	now := time.Now()
	d := &Descriptor{
		ID:        s.Conns.NextID(),
		Conn:      nullConn{},
		State:     ConnLogin,
		Addr:      addr,
		ConnTime:  now,
		LastCmd:   now,
		Retries:   3,
		Transport: TransportWebSocket,
	}
	d.SendFunc = func(msg string) {
		wc.sendJSON(WSMessage{Type: "text", Text: msg})
	}
	d.ReceiveFunc = func(ev events.Event) {
		wc.sendJSON(WSMessage{
			Type: ev.Type.String(),
			Text: ev.Text,
			Data: ev.Data,
		})
		if ev.Type == events.EvShutdown {
			d.Close()
			wc.conn.Close()
		}
	}
	return d, wc
}

func wsReadLoop(ws *WebServer, d *Descriptor, wc *wsConn) {
	s := ws.server
	defer func() {
		if d.State == ConnConnected {
			s.Game.Leave(d.Player)
		}
		s.Conns.Remove(d)
		d.Close()
		wc.conn.Close()
		log.Printf("[ws:%d] WebSocket closed from %s", d.ID, d.Addr)
	}()

	for {
		_, msgBytes, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws:%d] read error: %v", d.ID, err)
			}
			return
		}

		d.LastCmd = time.Now()

		var msg WSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			wc.sendJSON(WSMessage{Type: "error", Text: "Invalid JSON message"})
			continue
		}

		switch msg.Type {
		case "command":
			if d.State == ConnLogin {
				handleWSLogin(s, d, wc, msg.Command)
			} else {
				s.Game.HandleLine(d.Player, msg.Command)
			}
		case "login":
			handleWSLogin(s, d, wc, msg.Command)
		default:
			wc.sendJSON(WSMessage{Type: "error", Text: fmt.Sprintf("Unknown message type: %s", msg.Type)})
		}

		if d.IsClosed() {
			return
		}
	}
}

// handleWSLogin runs the in-band login handshake over JSON frames.
func handleWSLogin(s *Server, d *Descriptor, wc *wsConn, input string) {
	command, user, password := ParseConnect(input)

	var (
		m   *player.Meta
		err error
	)
	switch {
	case strings.HasPrefix(command, "co") && strings.EqualFold(user, "guest"):
		m = s.loginGuest()
	case strings.HasPrefix(command, "co"):
		m, err = s.loginConnect(user, password)
	case strings.HasPrefix(command, "cr"):
		m, err = s.loginCreate(user, password)
	default:
		wc.sendJSON(WSMessage{Type: "error", Text: "Use: connect <name> <password> or create <name> <password>"})
		return
	}
	if err != nil {
		wc.sendJSON(WSMessage{Type: "error", Text: err.Error()})
		d.Retries--
		if d.Retries <= 0 {
			wc.sendJSON(WSMessage{Type: "error", Text: "Too many failed attempts. Disconnecting."})
			d.Close()
		}
		return
	}

	s.Conns.Login(d, m.ID)
	wc.sendJSON(WSMessage{
		Type: "login",
		Data: map[string]any{
			"player_id":   m.ID.String(),
			"player_name": m.Name,
		},
	})
	log.Printf("[ws:%d] %s logged in", d.ID, m.Name)
	s.Game.Join(m)
}
