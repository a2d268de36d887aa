package game

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// GameConf holds game-level configuration parameters.
type GameConf struct {
	// --- Identity ---
	GameName string `yaml:"game_name"`

	// --- Simulation ---
	UpdatesPerSecond int  `yaml:"updates_per_second"`
	CheatsEnabled    bool `yaml:"cheats_enabled"`

	// --- New players ---
	StartingGold  int `yaml:"starting_gold"`
	StartingTowns int `yaml:"starting_towns"` // new players spawn in towns 1..N

	// --- Display defaults (per-player overrides live on the player) ---
	TextSpeed  int64 `yaml:"text_speed"`  // ms per pause unit
	LineLength int   `yaml:"line_length"` // wrap column for marked text

	// --- Persistence ---
	DatabasePath     string `yaml:"database_path"`
	AutoSaveInterval int    `yaml:"autosave_interval"` // seconds, 0 = disabled

	// --- Network ---
	Port    int    `yaml:"port"`     // telnet-style TCP
	WebPort int    `yaml:"web_port"` // websocket + health + metrics
	WebHost string `yaml:"web_host"` // bind address, empty = all interfaces
}

// DefaultGameConf returns a GameConf with playable defaults.
func DefaultGameConf() *GameConf {
	return &GameConf{
		GameName:         "Wayfarer",
		UpdatesPerSecond: 10,
		CheatsEnabled:    false,
		StartingGold:     1000,
		StartingTowns:    3,
		TextSpeed:        1500,
		LineLength:       40,
		DatabasePath:     "wayfarer.db",
		AutoSaveInterval: 300,
		Port:             4050,
		WebPort:          8080,
	}
}

// LoadGameConf reads a YAML config file over the defaults, so a partial
// file only overrides what it names.
func LoadGameConf(path string) (*GameConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	gc := DefaultGameConf()
	if err := yaml.Unmarshal(data, gc); err != nil {
		return nil, fmt.Errorf("parsing YAML %s: %w", path, err)
	}
	return gc, nil
}

// tunables are the conf values safe to change while the game runs. The
// loop and senders read them atomically; everything else needs a
// restart.
type tunables struct {
	textSpeed  atomic.Int64
	lineLength atomic.Int64
	cheats     atomic.Bool
}

func (t *tunables) apply(gc *GameConf) {
	t.textSpeed.Store(gc.TextSpeed)
	t.lineLength.Store(int64(gc.LineLength))
	t.cheats.Store(gc.CheatsEnabled)
}

// WatchConf starts an fsnotify watcher on the config file and re-applies
// the tunable values whenever it is rewritten.
func (g *Game) WatchConf(path string) {
	if path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WARNING: Could not start config watcher: %v", err)
		return
	}

	target := filepath.Base(path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				gc, err := LoadGameConf(path)
				if err != nil {
					log.Printf("WARNING: Config reload failed: %v", err)
					continue
				}
				g.tune.apply(gc)
				log.Printf("GAME: Config reloaded: text_speed=%d line_length=%d cheats=%v",
					gc.TextSpeed, gc.LineLength, gc.CheatsEnabled)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Printf("WARNING: Could not watch config file %s: %v", path, err)
		watcher.Close()
		return
	}
	log.Printf("Watching config file for changes: %s", path)
}
