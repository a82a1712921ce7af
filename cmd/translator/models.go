package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoyo3287258/title-translator/internal/translator"
)

func RunModelsCmdF(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	tr, err := translator.New(&cfg.LLM)
	if err != nil {
		return err
	}

	lister, ok := tr.(translator.ModelLister)
	if !ok {
		return fmt.Errorf("provider %s does not list models", tr.Name())
	}

	body, err := lister.ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("Error fetching models: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return nil
}

func MakeModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "models",
		Short:        "List the models offered by the configured provider",
		SilenceUsage: true,
		RunE:         RunModelsCmdF,
	}
}
