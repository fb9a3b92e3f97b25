// Package cli 实现 landing 命令行
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251016-go-pkg-landing/internal/config"
	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
)

// shutdownTimeout 优雅退出的最长等待时间
const shutdownTimeout = 10 * time.Second

// Run 执行命令行
func Run(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

type rootOptions struct {
	cfgPath string
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "landing",
		Short:         "落地页策略简报生成服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "", "config yaml path")
	fs.StringVar(&opts.envFile, "env-file", "", ".env file path (default ./.env if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newBriefCmd(opts),
		newMockCmd(opts),
	)
	return cmd
}

// load 加载配置并初始化日志
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath, o.envFile)
	if err != nil {
		return nil, err
	}
	if err := logging.Configure(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listenAndServe 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅退出
func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
