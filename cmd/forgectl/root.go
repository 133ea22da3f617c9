package main

import (
	"VideoForge/internal/app"
	"VideoForge/internal/config"
	"VideoForge/pkg/logger"
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type commandContext struct {
	envFile *string
	verbose *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	app *app.App
}

func newCommandContext(envFile *string, verbose *bool) *commandContext {
	return &commandContext{envFile: envFile, verbose: verbose}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var files []string
		if c.envFile != nil && strings.TrimSpace(*c.envFile) != "" {
			files = append(files, strings.TrimSpace(*c.envFile))
		}
		cfg, err := config.Load(files...)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureApp 连接数据库等基础设施；命令行默认只输出warn以上的日志，避免和表格混在一起
func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	app.InitLogger(cfg)
	if c.verbose == nil || !*c.verbose {
		logger.Log.SetLevel(logrus.WarnLevel)
	}
	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *commandContext) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	var verbose bool

	ctx := newCommandContext(&envFile, &verbose)

	rootCmd := &cobra.Command{
		Use:           "forgectl",
		Short:         "VideoForge maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info level logs")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newVideoCommand(ctx))
	rootCmd.AddCommand(newLeaderboardCommand(ctx))
	rootCmd.AddCommand(newEditorsCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
