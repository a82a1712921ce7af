// Package main is the AWS Lambda entry point of the title translator.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/logger"
	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/service"
	"github.com/yoyo3287258/title-translator/internal/translator"
)

// configPathEnv points at a YAML config; without it the embedded defaults are used.
const configPathEnv = "TRANSLATOR_CONFIG"

const defaultConfig = `
llm:
  provider: gemini
  api_key: ${GEMINI_API_KEY}
log:
  format: json
`

var errEmptyTitle = errors.New("title must not be empty")

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	for _, warn := range cfg.Warnings() {
		log.Warn(warn)
	}

	tr, err := translator.New(&cfg.LLM)
	if err != nil {
		log.Error("创建翻译服务失败", mlog.Err(err))
		os.Exit(1)
	}

	h := newHandler(service.New(tr, nil, log), log)
	lambda.Start(h.handleRequest)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := os.Getenv(configPathEnv); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Parse([]byte(defaultConfig))
	}
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

type handler struct {
	svc *service.Service
	log *mlog.Logger
}

func newHandler(svc *service.Service, log *mlog.Logger) *handler {
	return &handler{svc: svc, log: log}
}

func (h *handler) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection must happen before any other processing
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup, h.log)
	}

	var req model.TranslationRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid translation request: %w", err)
	}

	if strings.TrimSpace(req.Title) == "" {
		return model.Failed(req.WithDefaults(), errEmptyTitle), nil
	}

	return h.svc.Translate(ctx, service.SurfaceLambda, req), nil
}
