package cli

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/client"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/strategy"
)

func newBriefCmd(root *rootOptions) *cobra.Command {
	var proxyURL string
	cmd := &cobra.Command{
		Use:   "brief <project description>",
		Short: "生成落地页初始策略简报",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			clientCfg := cfg.ClientOptions()
			if proxyURL != "" {
				clientCfg.BaseURL = proxyURL
			}

			planner := strategy.NewPlanner(client.New(clientCfg, client.WithLogger(log.WithField("command", "brief"))))
			result, err := planner.Brief(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy base URL (overrides client.proxy_url)")
	return cmd
}
