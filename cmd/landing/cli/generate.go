package cli

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/client"
)

type generateOptions struct {
	system    string
	grounding bool
	proxyURL  string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "通过代理生成文本",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			clientCfg := cfg.ClientOptions()
			if opts.proxyURL != "" {
				clientCfg.BaseURL = opts.proxyURL
			}

			result, err := client.New(clientCfg, client.WithLogger(log.WithField("command", "generate"))).Generate(cmd.Context(), llm.GenerationRequest{
				Prompt:            strings.Join(args, " "),
				SystemInstruction: opts.system,
				UseGrounding:      opts.grounding,
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.system, "system", "s", "", "system instruction")
	fs.BoolVarP(&opts.grounding, "grounding", "g", false, "enable Google Search grounding")
	fs.StringVar(&opts.proxyURL, "proxy", "", "proxy base URL (overrides client.proxy_url)")
	return cmd
}

// printResult 输出正文与引用来源
func printResult(w io.Writer, result *llm.GenerationResult) {
	fmt.Fprintln(w, result.Text)
	if len(result.Sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i, src := range result.Sources {
		fmt.Fprintf(w, "  [%d] %s\n      %s\n", i+1, src.Title, src.URI)
	}
}
