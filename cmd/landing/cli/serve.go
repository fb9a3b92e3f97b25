package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/proxy"
)

type serveOptions struct {
	addr string
	path string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动生成代理",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.path != "" {
				cfg.Server.Path = opts.path
			}

			upstream := cfg.Upstream
			if err := upstream.Validate(); err != nil {
				log.Warnf("%s is not set, %s will answer 500 until it is configured", llm.EnvAPIKey, cfg.Server.Path)
			}

			log.WithFields(log.Fields{
				"model": upstream.GetModel(),
			}).Infof("proxy listening on %s%s (key %s)", cfg.Server.Addr, cfg.Server.Path, logging.HideAPIKey(upstream.APIKey))

			return listenAndServe(cmd.Context(), cfg.Server.Addr, proxy.NewRouter(&upstream, cfg.Server.Path))
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	fs.StringVar(&opts.path, "path", "", "endpoint path (overrides server.path)")
	return cmd
}
