package main

import (
	"errors"
	"fmt"
	"log/slog"

	linkedinadapter "github.com/socialpilot/socialpilot/internal/adapter/driven/linkedin"
	openaiadapter "github.com/socialpilot/socialpilot/internal/adapter/driven/openai"
	sqliteadapter "github.com/socialpilot/socialpilot/internal/adapter/driven/sqlite"
	"github.com/socialpilot/socialpilot/internal/application"
	"github.com/socialpilot/socialpilot/internal/config"
)

// app is the composition root shared by all commands: configuration, storage,
// provider clients, and the application services wired on top of them.
type app struct {
	cfg *config.Config
	db  *sqliteadapter.DB

	content   *sqliteadapter.ContentRepo
	tokens    *application.TokenService
	publisher *application.PublishService
	selector  *application.Selector
}

// openApp loads configuration, opens the database, runs migrations, and wires
// the adapters and services. Callers must Close the returned app.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		db.Close()
		return nil, err
	}

	creds := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	content := sqliteadapter.NewContentRepo(db)
	network := linkedinadapter.NewClient(cfg.ClientID, cfg.ClientSecret)
	generator := openaiadapter.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	tokens := application.NewTokenService(creds, network)
	pipeline := application.NewUploadPipeline(network)
	publisher := application.NewPublishService(tokens, pipeline, network)
	selector := application.NewSelector(generator, cfg.Cooldown, cfg.GeneratePrompt)

	if cfg.OpenAIAPIKey == "" {
		slog.Warn("no OpenAI API key configured, content generation fallback will fail")
	}

	return &app{
		cfg:       cfg,
		db:        db,
		content:   content,
		tokens:    tokens,
		publisher: publisher,
		selector:  selector,
	}, nil
}

// Close releases the app's database connections.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// postService builds the full publish cycle for the configured account.
func (a *app) postService() (*application.PostService, error) {
	if a.cfg.AccountKey == "" {
		return nil, errors.New("SOCIALPILOT_ACCOUNT is required")
	}
	return application.NewPostService(a.content, a.selector, a.publisher, a.cfg.AccountKey), nil
}

// requireAccount resolves the account key from a flag with the configured
// account as fallback.
func (a *app) requireAccount(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if a.cfg.AccountKey != "" {
		return a.cfg.AccountKey, nil
	}
	return "", fmt.Errorf("no account: pass --account or set SOCIALPILOT_ACCOUNT")
}
