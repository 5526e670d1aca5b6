package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"college-agent/handler"
	"college-agent/internal/integrations/gemini"
	"college-agent/internal/repository"
	"college-agent/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	// .env is a dev convenience; absence is normal in deployment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}
	appsScriptURL := os.Getenv("APPS_SCRIPT_URL")
	apiKey := os.Getenv("GOOGLE_API_KEY")
	model := os.Getenv("GEMINI_MODEL")
	port := envStr("PORT", "8000")
	imagesDir := envStr("IMAGES_DIR", "images")

	// ---- Clients ----
	// Both credentials degrade gracefully: the service keeps serving and
	// /chat answers with a canned reply instead of failing startup.
	if appsScriptURL == "" {
		slog.Warn("APPS_SCRIPT_URL not set; data fetching is disabled")
	}
	dataClient := repository.New(appsScriptURL)

	var llm usecase.LLMClient
	if apiKey == "" {
		slog.Warn("GOOGLE_API_KEY not set; chat is disabled")
	} else {
		geminiClient, err := gemini.NewClient(ctx, apiKey, model)
		if err != nil {
			slog.Error("failed to create Gemini client; chat is disabled", "err", err)
		} else {
			llm = geminiClient
			slog.Info("Gemini client ready", "model", geminiClient.Model())
		}
	}

	chatService, err := usecase.NewChatService(dataClient, llm)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	srv, err := handler.New(chatService, imagesDir)
	if err != nil {
		slog.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	addr := ":" + port
	slog.Info("chatbot server listening", "addr", addr, "images_dir", imagesDir)
	if err := http.ListenAndServe(addr, srv); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func envStr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
