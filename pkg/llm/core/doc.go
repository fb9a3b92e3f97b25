// Package core 提供代理端与客户端共用的底层能力
//
//   - [Upstream]: 基于 resty 的 Gemini generateContent 单次调用
//   - [RetryPolicy]: 仅针对 429 的指数退避状态机
//   - [ExtractErrorMessage]: 从错误响应体提取可读错误信息
package core
