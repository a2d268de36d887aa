// Package server is the transport layer: a plain TCP line listener and
// a WebSocket/HTTP listener, both feeding lines into the game loop and
// streaming screen updates back off the event bus.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/wayfarer-mud/wayfarer/pkg/boltstore"
	"github.com/wayfarer-mud/wayfarer/pkg/game"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// WelcomeText greets a raw TCP connection before login.
const WelcomeText = "" +
	"----------------------------------------\n" +
	"              W A Y F A R E R\n" +
	"----------------------------------------\n" +
	"  connect <name> <password>  log back in\n" +
	"  create <name> <password>   new account\n" +
	"  connect guest              just visit\n" +
	"  WHO / QUIT\n" +
	"----------------------------------------\n"

// Config holds server configuration.
type Config struct {
	Port        int
	IdleTimeout time.Duration
	MaxRetries  int
	WelcomeText string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:        4050,
		IdleTimeout: 3600 * time.Second,
		MaxRetries:  3,
		WelcomeText: WelcomeText,
	}
}

// Server is the TCP game server.
type Server struct {
	Config   Config
	Game     *game.Game
	Store    *boltstore.Store
	Conns    *ConnManager
	listener net.Listener
	web      *WebServer
}

// NewServer creates a server bound to a running game.
func NewServer(g *game.Game, store *boltstore.Store, cfg Config) *Server {
	return &Server{
		Config: cfg,
		Game:   g,
		Store:  store,
		Conns:  NewConnManager(g.Bus),
	}
}

// SetWebServer attaches a web listener so Stop can shut it down too.
func (s *Server) SetWebServer(ws *WebServer) {
	s.web = ws
}

// Start listens for TCP connections until the listener is closed.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Config.Port))
	if err != nil {
		return fmt.Errorf("tcp listener: %w", err)
	}
	s.listener = ln
	log.Printf("GAME: Listening (tcp) on port %d", s.Config.Port)
	s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("Accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Stop closes the listener, every connection and the web server.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	for _, d := range s.Conns.AllDescriptors() {
		d.Close()
	}
	if s.web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.web.Stop(ctx)
	}
}

// handleConnection manages a single client connection lifecycle.
func (s *Server) handleConnection(conn net.Conn) {
	d := NewDescriptor(s.Conns.NextID(), conn)
	d.Retries = s.Config.MaxRetries
	s.Conns.Add(d)

	log.Printf("[%d] New connection from %s", d.ID, d.Addr)

	defer func() {
		if d.State == ConnConnected {
			s.Game.Leave(d.Player)
		}
		s.Conns.Remove(d)
		d.Close()
		log.Printf("[%d] Connection closed from %s", d.ID, d.Addr)
	}()

	d.SendNoNewline(s.Config.WelcomeText)

	scanner := bufio.NewScanner(d.Conn)
	scanner.Buffer(make([]byte, 8192), 8192)

	for scanner.Scan() {
		if d.IsClosed() {
			return
		}

		line := stripTelnet(scanner.Text())
		line = strings.TrimRight(line, "\r\n")
		d.LastCmd = time.Now()

		if d.State == ConnLogin {
			s.handleLoginCommand(d, line)
		} else {
			s.Game.HandleLine(d.Player, line)
		}

		if d.IsClosed() {
			return
		}
	}
}

// handleLoginCommand processes pre-login commands.
func (s *Server) handleLoginCommand(d *Descriptor, input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	upper := strings.ToUpper(input)
	if upper == "QUIT" {
		d.Send("Goodbye!")
		d.Close()
		return
	}
	if upper == "WHO" {
		s.showWho(d)
		return
	}

	command, user, password := ParseConnect(input)

	switch {
	case strings.HasPrefix(command, "co"):
		if strings.EqualFold(user, "guest") {
			s.admit(d, s.loginGuest())
			return
		}
		m, err := s.loginConnect(user, password)
		if err != nil {
			s.refuse(d, err)
			return
		}
		s.admit(d, m)

	case strings.HasPrefix(command, "cr"):
		m, err := s.loginCreate(user, password)
		if err != nil {
			s.refuse(d, err)
			return
		}
		s.admit(d, m)

	default:
		d.Send("Commands: connect <name> <password>, create <name> <password>, WHO, QUIT")
	}
}

// admit subscribes the descriptor and hands the player to the game.
func (s *Server) admit(d *Descriptor, m *player.Meta) {
	s.Conns.Login(d, m.ID)
	log.Printf("[%d] %s logged in", d.ID, m.Name)
	s.Game.Join(m)
}

func (s *Server) refuse(d *Descriptor, err error) {
	d.Send(err.Error())
	d.Retries--
	if d.Retries <= 0 {
		d.Send("Too many failed attempts. Disconnecting.")
		d.Close()
	}
}

func (s *Server) showWho(d *Descriptor) {
	players := s.Game.World.Players()
	d.Send(fmt.Sprintf("%d player(s) connected.", len(players)))
	for _, p := range players {
		d.Send(fmt.Sprintf("  %s (town %d)", p.Name, p.Coords.Town))
	}
}

// stripTelnet removes IAC control sequences a telnet client may send.
func stripTelnet(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == 0xFF && i+2 < len(s) {
			i += 3
			continue
		}
		if s[i] >= 0x20 || s[i] == '\t' {
			b.WriteByte(s[i])
		}
		i++
	}
	return b.String()
}
