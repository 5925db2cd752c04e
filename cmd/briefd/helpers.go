package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	"github.com/infblueocean/briefd/internal/config"
	"github.com/infblueocean/briefd/internal/discovery"
	"github.com/infblueocean/briefd/internal/ingress"
	"github.com/infblueocean/briefd/internal/oracle"
	"github.com/infblueocean/briefd/internal/pipeline"
	"github.com/infblueocean/briefd/internal/store"
)

// dataDir returns ~/.briefd/, creating it if needed.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to get home directory: %v", err)
	}
	dir := filepath.Join(home, ".briefd")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// dbPath returns the path to briefd.db.
func dbPath() string {
	return filepath.Join(dataDir(), "briefd.db")
}

// openDB opens the store or fatals.
func openDB() *store.Store {
	st, err := store.Open(dbPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// loadConfig loads the config file with env overrides, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.AutoPopulateFromEnv()
	return cfg
}

// buildOracle wires the configured providers into a fallback manager.
func buildOracle(cfg *config.Config) *oracle.Manager {
	mgr := oracle.NewManager()
	if cfg.Models.Claude.Enabled && cfg.Models.Claude.APIKey != "" {
		mgr.AddProvider(oracle.NewClaudeProvider(cfg.Models.Claude.APIKey, cfg.Models.Claude.Model))
	}
	if cfg.Models.Ollama.Enabled {
		mgr.AddProvider(oracle.NewOllamaProvider(cfg.Models.Ollama.Endpoint, cfg.Models.Ollama.Model))
	}
	if cfg.Models.Claude.Priority <= cfg.Models.Ollama.Priority {
		mgr.SetPreferred("claude")
	} else {
		mgr.SetPreferred("ollama")
	}
	return mgr
}

// buildSources assembles the enabled signal sources.
func buildSources(cfg *config.Config, registry *discovery.Registry) []ingress.Source {
	var sources []ingress.Source
	if cfg.Sources.Reddit {
		sources = append(sources, ingress.NewReddit(cfg.Sources.UserAgent, cfg.Pipeline.RecencyDays))
	}
	if cfg.Sources.PlayStore {
		sources = append(sources, ingress.NewPlayStore(registry, cfg.Sources.UserAgent, cfg.Pipeline.RecencyDays))
	}
	if cfg.Sources.AppStore {
		sources = append(sources, ingress.NewAppStore(registry, cfg.Sources.UserAgent, cfg.Pipeline.RecencyDays))
	}
	for _, tmpl := range cfg.Sources.ForumRSS {
		name := "forum"
		if u, err := url.Parse(fmt.Sprintf(tmpl, "probe")); err == nil && u.Host != "" {
			name = u.Host
		}
		sources = append(sources, ingress.NewForumRSS(name, tmpl, cfg.Sources.UserAgent, cfg.Pipeline.RecencyDays))
	}
	return sources
}

// buildPipeline wires config, sources, oracle and store into a pipeline.
func buildPipeline(cfg *config.Config, st *store.Store) *pipeline.Pipeline {
	registry := discovery.NewRegistry(st, cfg.KnownApps, cfg.Sources.UserAgent)
	sources := buildSources(cfg, registry)
	return pipeline.New(sources, buildOracle(cfg), st, cfg.Pipeline)
}
