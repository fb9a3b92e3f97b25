// Package proxy 实现服务端生成代理端点
//
// 浏览器不持有上游 API Key，而是把请求发到本端点：
//
//	POST /.netlify/functions/generate-content
//	{"userQuery": "...", "systemPrompt": "...", "useGrounding": true}
//
// 端点附加 API Key 后向 Gemini 发出一次请求，成功时原样返回上游 JSON，
// 失败时返回 {"error": "..."}。端点本身不重试、不缓存、不限流，
// 重试由 [client.Client] 负责。
//
// # 使用
//
//	cfg := llm.DefaultConfig()
//	r := proxy.NewRouter(&cfg, proxy.DefaultPath)
//	_ = r.Run(":8080")
package proxy
