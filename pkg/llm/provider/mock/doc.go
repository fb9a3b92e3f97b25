// Package mock 提供本地 Gemini generateContent 模拟服务
//
// 用于测试与本地开发，无需真实的 API Key 即可走通整条链路
// （client → proxy → mock）。
//
// # 快速开始
//
//	srv := mock.New(mock.WithReplies(
//	    mock.Reply{Status: 429},
//	    mock.Reply{Text: "hello"},
//	))
//	ts := httptest.NewServer(srv)
//	defer ts.Close()
//
//	cfg := llm.Config{APIKey: "k", BaseURL: ts.URL}
//
// # 回复序列
//
// 每次调用依次取一条 [Reply]，用完后重复最后一条；
// [Server.Calls] 返回所有调用记录，便于断言请求体。
//
// # 配置文件
//
// [WithConfigFile] 从 YAML/JSON 加载配置，[LoadExampleConfig] 返回内嵌示例：
//
//	delay: "200ms"
//	replies:
//	  - status: 429
//	    error: "Resource has been exhausted"
//	  - text: "Brief for {{.PROMPT}}"
//	    sources:
//	      - uri: "https://example.com"
//	        title: "Example"
//
// # 模板语法
//
// 回复正文支持 Go 模板：
//
//   - {{.PROMPT}} / {{.SYSTEM}}: 请求提示词与系统指令
//   - {{.VAR | default "fallback"}}: 环境变量与默认值
//   - {{env "VAR"}}: 显式获取环境变量
package mock
