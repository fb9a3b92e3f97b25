// Package llm 定义落地页文本生成链路的核心类型
//
// 链路：浏览器 / CLI → [client.Client] → 代理端点 [proxy.Handler] → Gemini API。
//
// # 核心类型
//
// [GenerationRequest] 单次请求（提示词、系统指令、是否联网检索）。
//
// [GenerationResult] 解析后的结果：正文与引用来源列表。
//
// [Config] 上游配置（API Key、模型），进程启动时构造一次后只读。
//
// # 错误分类
//
//   - [ConfigError]: 缺少 API Key，代理返回 500，不重试
//   - [APIError]: 上游/代理返回非 2xx，保留状态码与错误信息
//   - [RateLimitError]: 429 重试耗尽
//   - [ResponseError]: 2xx 但无法提取正文（包装 [ErrNoContent]）
//   - [HTTPError] / [RequestError]: 网络或序列化失败
//
// # 环境变量
//
//   - GEMINI_API_KEY: 上游 API Key
//   - GEMINI_MODEL: 模型名称（可选）
//
// # 子包
//
//   - [pkg/llm/protocol/gemini]: 上游请求体构造与响应解析
//   - [pkg/llm/core]: 上游调用与重试策略
//   - [pkg/llm/proxy]: 服务端代理端点
//   - [pkg/llm/client]: 带限流重试的客户端
//   - [pkg/llm/strategy]: 落地页策略简报
//   - [pkg/llm/provider/mock]: 本地 Gemini 模拟服务
package llm
