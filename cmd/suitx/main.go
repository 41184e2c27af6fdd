package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/suitx/internal/engine/bootstrap"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/10
 * @file: main.go
 * @description: suitx 服务入口
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:          version.AppName,
	Short:        "suitx project and risk management server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server, task queue and housekeeping jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, _, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := repo.AutoMigrate(cmd.Context(), app.DB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema migrated")
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild every user's project index from project membership",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, _, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := app.Services.Membership.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd, version.VersionCmd)
}

func serve() error {
	// Bootstrap 初始化应用
	app, cleanup, _, err := bootstrap.Bootstrap(configFile, initApp)
	if err != nil {
		return err
	}

	// 启动应用并等待退出信号
	bootstrap.Run(app, cleanup)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
