package main

import (
	"log/slog"

	"shelver/internal/config"
	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/services/llm"
	"shelver/internal/stages"
	"shelver/internal/vault"
)

func buildScheduler(cfg *config.Config, store *records.Store, logger *slog.Logger) *pipeline.Scheduler {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	handlers := stages.BuildAll(cfg, vault.New(), client)
	return pipeline.New(cfg, store, handlers, logger)
}
