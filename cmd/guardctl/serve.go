package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	rds "github.com/redis/go-redis/v9"

	"github.com/gatewright/go-guardrails/agent/core"
	"github.com/gatewright/go-guardrails/audit"
	auditpg "github.com/gatewright/go-guardrails/audit/pg"
	"github.com/gatewright/go-guardrails/config"
	"github.com/gatewright/go-guardrails/guardrail"
	"github.com/gatewright/go-guardrails/llm/openai"
	"github.com/gatewright/go-guardrails/logging"
	"github.com/gatewright/go-guardrails/memory"
	"github.com/gatewright/go-guardrails/memory/inmemory"
	memredis "github.com/gatewright/go-guardrails/memory/redis"
	httpserver "github.com/gatewright/go-guardrails/server/http"
)

func handleServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default: GUARDRAILS_CONFIG_PATH or configs/guardrails.yaml)")
	systemPrompt := fs.String("system", "You are a helpful assistant.", "System prompt for the chat agent")
	fs.Parse(os.Args[2:])

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)
	ctx := context.Background()

	validator, cleanup, err := config.NewValidator(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create guardrail backend")
	}
	defer cleanup()

	opts := config.InterceptorOptions(cfg)
	opts = append(opts, guardrail.WithLogger(logger))

	// Optional durable audit trail
	if cfg.Postgres.DSN != "" {
		var recorder audit.Recorder
		store, err := auditpg.New(ctx, cfg.Postgres.DSN, cfg.Postgres.Table)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect audit store")
		}
		defer store.Close()
		recorder = store
		opts = append(opts, guardrail.WithAuditRecorder(recorder))
	}

	interceptor := guardrail.NewInterceptor(validator, opts...)

	model, err := openai.NewClient(openai.Config{
		APIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create model client")
	}

	var mem memory.ConversationStore
	if cfg.Redis.Addr != "" {
		client := rds.NewClient(&rds.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer client.Close()
		mem = memredis.NewConversationStore(client, "guardrails", 24*time.Hour)
	} else {
		mem = inmemory.NewConversationStore()
	}

	agent := core.NewChatAgent(core.ChatConfig{
		Model: model,
		Mem:   mem,
		Hooks: core.NewHookRegistry(interceptor),
		Config: core.AgentConfig{
			MaxIterations: 3,
			SystemPrompt:  *systemPrompt,
		},
	})

	srv := httpserver.NewServer(agent, httpserver.Config{
		Port:   cfg.Server.Port,
		Logger: logger,
	})

	logger.Info().
		Str("backend", validator.Name()).
		Int("port", cfg.Server.Port).
		Msg("moderated chat server starting")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
