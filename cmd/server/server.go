package main

import (
	"context"
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/config"
	"github.com/zucenko/minefield/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func newServer(cfg config.Config) (*Server, error) {
	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return nil, err
	}
	if _, err := presets.Get(cfg.DefaultPreset); err != nil {
		return nil, err
	}
	log.WithField("presets", presets.Names()).Info("presets loaded")
	opts := []server.Option{
		server.WithPresets(presets, cfg.DefaultPreset),
		server.WithMaxCells(cfg.MaxCells),
	}
	if cfg.LayoutFile != "" {
		layout, err := server.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithLayout(layout))
	}
	if cfg.Seed != 0 {
		opts = append(opts, server.WithSeed(cfg.Seed))
	}

	s := &Server{GameServer: server.NewGameServer(opts...)}
	s.routes()
	return s, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		log.Fatalln(err)
	}

	s, err := newServer(cfg)
	if err != nil {
		log.Fatalln(err)
	}
	go s.GameServer.Loop(context.Background())

	log.Printf("Listening on port %s", cfg.Port)
	log.Fatalln(http.ListenAndServe(":"+cfg.Port, s.router))
}
