package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattermost/mattermost/server/public/shared/mlog"
	"github.com/spf13/cobra"

	"github.com/yoyo3287258/title-translator/internal/api"
	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/kafka"
	"github.com/yoyo3287258/title-translator/internal/logger"
	"github.com/yoyo3287258/title-translator/internal/metrics"
	"github.com/yoyo3287258/title-translator/internal/service"
	"github.com/yoyo3287258/title-translator/internal/translator"
)

const shutdownTimeout = 10 * time.Second

func RunServeCmdF(cmd *cobra.Command, args []string) error {
	configMgr, cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	defer log.Shutdown()

	log.Info("Title Translator 启动中",
		mlog.String("version", Version),
		mlog.String("provider", cfg.LLM.Provider),
		mlog.String("model", cfg.LLM.Model),
	)
	for _, warn := range cfg.Warnings() {
		log.Warn(warn)
	}

	m := metrics.NewMetrics()

	tr, err := translator.New(&cfg.LLM)
	if err != nil {
		return err
	}
	svc := service.New(tr, m, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 配置热重载：日志级别和API密钥
	if configMgr != nil {
		configMgr.OnReload(func(newCfg *config.Config) {
			if err := logger.Configure(log, &newCfg.Log); err != nil {
				log.Error("重新配置日志失败", mlog.Err(err))
			}
			if rotator, ok := tr.(translator.KeyRotator); ok {
				rotator.SetAPIKey(newCfg.LLM.APIKey)
			}
			log.Info("配置已重载")
		})

		stopWatch, err := configMgr.WatchChanges(func(err error) {
			log.Warn("配置重载失败", mlog.Err(err))
		})
		if err != nil {
			log.Warn("配置文件监听启动失败", mlog.Err(err))
		} else {
			defer stopWatch()
		}
	}

	// Kafka（可选），连接失败时以纯HTTP模式运行
	var kafkaClient *kafka.Client
	if cfg.Kafka.Enabled {
		kafkaClient, err = kafka.NewClient(&cfg.Kafka, svc, m, log)
		if err != nil {
			log.Warn("Kafka连接失败，将以无Kafka模式运行", mlog.Err(err))
		} else {
			go func() {
				if err := kafkaClient.Run(ctx); err != nil {
					log.Error("Kafka消费退出", mlog.Err(err))
				}
			}()
		}
	}

	server := api.NewServer(api.NewHandler(svc, log, Version), cfg, m, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if kafkaClient != nil {
			kafkaClient.Close()
		}
		return err
	case <-ctx.Done():
	}

	log.Info("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("关闭服务器失败", mlog.Err(err))
	}
	if kafkaClient != nil {
		if err := kafkaClient.Close(); err != nil {
			log.Error("关闭Kafka失败", mlog.Err(err))
		}
	}

	return nil
}

func MakeServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API and the optional Kafka consumer",
		SilenceUsage: true,
		RunE:         RunServeCmdF,
	}
}
