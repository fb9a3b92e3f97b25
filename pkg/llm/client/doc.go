// Package client 提供带限流重试的生成客户端
//
// [Client] 把 [llm.GenerationRequest] 发送到代理端点，
// 仅在 429 时按固定退避序列（1s, 2s, 4s, 8s）重试，最多尝试 5 次；
// 其他任何失败立即返回。成功后从 Gemini 响应中提取正文与引用来源。
//
//	c := client.New(client.Config{BaseURL: "http://localhost:8080"})
//	result, err := c.Generate(ctx, llm.GenerationRequest{
//	    Prompt:            "Explain quantum computing",
//	    SystemInstruction: "You are a helpful assistant",
//	})
//	if llm.IsRateLimitError(err) {
//	    // 重试耗尽
//	}
//
// 同一 Client 可被多个 goroutine 并发使用，每次调用各自维护重试计数。
package client
