package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gatewright/go-guardrails/config"
	"github.com/gatewright/go-guardrails/guardrail"
	"github.com/gatewright/go-guardrails/logging"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		handleCheck()
	case "serve":
		handleServe()
	case "version":
		handleVersion()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("guardctl - CLI for the guardrails framework %s\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  guardctl check --text <text> [--config path] [--json]  Run one guardrail check")
	fmt.Println("  guardctl serve [--config path] [--system prompt]       Run the moderated chat server")
	fmt.Println("  guardctl version                                       Show version information")
	fmt.Println("  guardctl help                                          Show this help message")
}

func handleCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	text := fs.String("text", "", "Text to check")
	configPath := fs.String("config", "", "Config file path (default: GUARDRAILS_CONFIG_PATH or configs/guardrails.yaml)")
	asJSON := fs.Bool("json", false, "Print the verdict as JSON")
	timeout := fs.Duration("timeout", 30*time.Second, "Check timeout")
	fs.Parse(os.Args[2:])

	if *text == "" {
		fmt.Println("--text is required")
		os.Exit(1)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	validator, cleanup, err := config.NewValidator(ctx, cfg)
	if err != nil {
		fmt.Printf("backend error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	verdict, err := validator.Validate(ctx, *text)
	if err != nil {
		if guardrail.IsUnavailable(err) {
			logger.Error().Err(err).Msg("backend unavailable")
			fmt.Printf("UNAVAILABLE: %v\n", err)
			os.Exit(3)
		}
		fmt.Printf("check error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(verdict, "", "  ")
		fmt.Println(string(out))
	} else if verdict.Pass {
		fmt.Printf("PASS (backend=%s confidence=%.3f)\n", validator.Name(), verdict.Confidence)
	} else {
		fmt.Printf("BLOCK (backend=%s confidence=%.3f): %s\n", validator.Name(), verdict.Confidence, verdict.Reason)
	}

	if !verdict.Pass {
		os.Exit(2)
	}
}

func handleVersion() {
	fmt.Printf("guardctl version %s\n", version)
	fmt.Printf("Guardrails framework CLI\n")
}
