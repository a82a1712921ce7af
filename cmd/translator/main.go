package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yoyo3287258/title-translator/internal/config"
)

// 版本信息（在编译时通过 -ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "title-translator",
		Short:        "Document title translation service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "configs/config.yaml", "path to the configuration file, empty to use defaults")

	rootCmd.AddCommand(
		MakeServeCommand(),
		MakeTranslateCommand(),
		MakeModelsCommand(),
		MakeVersionCommand(),
	)
	return rootCmd
}

// loadConfig 读取 --config 指定的配置文件；路径为空时使用默认配置，此时 Manager 为nil
func loadConfig(cmd *cobra.Command) (*config.Manager, *config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	if configPath == "" {
		cfg, err := config.Parse(nil)
		if err != nil {
			return nil, nil, err
		}
		return nil, cfg, nil
	}

	mgr := config.NewManager(configPath)
	if err := mgr.Load(); err != nil {
		return nil, nil, err
	}

	cfg := mgr.Get()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return mgr, cfg, nil
}

func MakeVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Title Translator %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}
