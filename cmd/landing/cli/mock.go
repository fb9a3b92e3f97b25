package cli

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/provider/mock"
)

type mockOptions struct {
	addr     string
	scenario string
	apiKey   string
}

func newMockCmd(root *rootOptions) *cobra.Command {
	opts := mockOptions{}
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "启动本地 Gemini 模拟服务",
		Long: "启动本地 Gemini generateContent 模拟服务。\n\n" +
			"将 upstream.base_url 指向该地址即可在无 API Key 的情况下联调：\n" +
			"  landing mock --addr :8090\n" +
			"  GEMINI_API_KEY=dev landing serve -c landing.yaml   # upstream.base_url: http://localhost:8090",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := root.load(); err != nil {
				return err
			}
			srv, err := newMockServer(opts)
			if err != nil {
				return err
			}

			r := gin.New()
			r.Use(logging.GinLogger(), logging.GinRecovery())
			srv.Register(r)

			log.Infof("mock upstream listening on %s", opts.addr)
			return listenAndServe(cmd.Context(), opts.addr, r)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.addr, "addr", ":8090", "listen address")
	fs.StringVar(&opts.scenario, "scenario", "", "reply scenario file (yaml/json), default embedded example")
	fs.StringVar(&opts.apiKey, "api-key", "", "only accept this API key")
	return cmd
}

func newMockServer(opts mockOptions) (*mock.Server, error) {
	var cfg *mock.Config
	var err error
	if opts.scenario != "" {
		cfg, err = mock.LoadConfigFile(opts.scenario)
	} else {
		cfg, err = mock.LoadExampleConfig()
	}
	if err != nil {
		return nil, err
	}

	mockOpts := []mock.Option{mock.WithConfig(cfg)}
	if opts.apiKey != "" {
		mockOpts = append(mockOpts, mock.WithAPIKey(opts.apiKey))
	}
	return mock.New(mockOpts...), nil
}
