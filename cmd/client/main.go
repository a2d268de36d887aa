package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func main() {
	host := flag.String("host", envDefault("WAYFARER_HOST", "localhost:8080"), "Server host:port for the WebSocket endpoint (env: WAYFARER_HOST)")
	secure := flag.Bool("secure", os.Getenv("WAYFARER_SECURE") == "true", "Use wss:// instead of ws:// (env: WAYFARER_SECURE)")
	flag.Parse()

	scheme := "ws"
	if *secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: *host, Path: "/ws"}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	p := tea.NewProgram(newClientUI(conn, *host), tea.WithAltScreen())

	// Read pump: server frames become tea messages.
	go func() {
		for {
			var frame wsFrame
			if err := conn.ReadJSON(&frame); err != nil {
				p.Send(disconnectedMsg{err: err})
				return
			}
			p.Send(serverFrameMsg{frame: frame})
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
		os.Exit(1)
	}
}
