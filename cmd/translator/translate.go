package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/shared/mlog"
	"github.com/spf13/cobra"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/logger"
	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/service"
	"github.com/yoyo3287258/title-translator/internal/translator"
)

// newCLILogger 命令行模式下日志输出到stderr，避免污染stdout上的结果
func newCLILogger(cfg *config.Config) (*mlog.Logger, error) {
	logCfg := cfg.Log
	logCfg.Output = "stderr"
	return logger.New(&logCfg)
}

func RunTranslateCmdF(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	documentID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return errors.New("title must not be empty")
	}

	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer log.Shutdown()

	tr, err := translator.New(&cfg.LLM)
	if err != nil {
		return err
	}

	req := model.NewTranslationRequest(documentID, title, source, target)
	resp := service.New(tr, nil, log).Translate(cmd.Context(), service.SurfaceCLI, req)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !resp.IsSuccessful() {
		return errors.New(*resp.Error)
	}
	return nil
}

func MakeTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "translate [title]",
		Short:        "Translate a single title and print the response as JSON",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunTranslateCmdF,
	}
	cmd.Flags().StringP("id", "i", "cli", "document id to echo in the response")
	cmd.Flags().StringP("source", "s", model.DefaultSourceLanguage, "source language code")
	cmd.Flags().StringP("target", "t", model.DefaultTargetLanguage, "target language code")
	return cmd
}
