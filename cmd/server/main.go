package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wayfarer-mud/wayfarer/pkg/boltstore"
	"github.com/wayfarer-mud/wayfarer/pkg/game"
	"github.com/wayfarer-mud/wayfarer/pkg/server"
)

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func main() {
	confFile := flag.String("conf", envDefault("WAYFARER_CONF", ""), "Path to game config file (env: WAYFARER_CONF)")
	dbPath := flag.String("db", envDefault("WAYFARER_DB", ""), "Path to bbolt player database, overrides config (env: WAYFARER_DB)")
	port := flag.Int("port", 0, "TCP port to listen on, overrides config (env: WAYFARER_PORT)")
	webPort := flag.Int("web-port", 0, "HTTP/WebSocket port, overrides config (env: WAYFARER_WEB_PORT)")
	noWeb := flag.Bool("no-web", os.Getenv("WAYFARER_NO_WEB") == "true", "Disable the HTTP/WebSocket listener (env: WAYFARER_NO_WEB)")
	watch := flag.Bool("watch", os.Getenv("WAYFARER_WATCH") == "true", "Reload tunable config values when the config file changes (env: WAYFARER_WATCH)")
	flag.Parse()

	conf := game.DefaultGameConf()
	if *confFile != "" {
		var err error
		conf, err = game.LoadGameConf(*confFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config %s: %v\n", *confFile, err)
			os.Exit(1)
		}
	}

	// Env ports apply when the flags are not set.
	if *port == 0 {
		if p, err := strconv.Atoi(os.Getenv("WAYFARER_PORT")); err == nil {
			*port = p
		}
	}
	if *webPort == 0 {
		if p, err := strconv.Atoi(os.Getenv("WAYFARER_WEB_PORT")); err == nil {
			*webPort = p
		}
	}
	if *port != 0 {
		conf.Port = *port
	}
	if *webPort != 0 {
		conf.WebPort = *webPort
	}
	if *dbPath != "" {
		conf.DatabasePath = *dbPath
	}

	log.Printf("Welcome to %s", conf.GameName)

	store, err := boltstore.Open(conf.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open database %s: %v\n", conf.DatabasePath, err)
		os.Exit(1)
	}
	defer store.Close()
	log.Printf("STORE: Database open at %s", store.Path())

	g := game.New(conf, store)
	g.Metrics = game.NewMetrics(g, g.StartTime)
	if *watch {
		g.WatchConf(*confFile)
	}
	g.StartAutoSave()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go g.Run(ctx)

	srvCfg := server.DefaultConfig()
	srvCfg.Port = conf.Port
	srv := server.NewServer(g, store, srvCfg)

	if !*noWeb {
		web := server.NewWebServer(srv, server.WebConfig{
			Port: conf.WebPort,
			Host: conf.WebHost,
		})
		srv.SetWebServer(web)
		go func() {
			if err := web.Start(); err != nil {
				log.Printf("WEB: Listener failed: %v", err)
			}
		}()
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("GAME: Listener failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("GAME: Shutting down")
	srv.Stop()
}
