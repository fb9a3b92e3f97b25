// Package gemini 实现 Google Gemini generateContent 协议的请求构造与响应解析
//
// # 协议特点
//
//   - 内容格式：Content{Parts[]} 结构
//   - 系统消息：使用独立的 systemInstruction 字段
//   - 联网检索：tools 中的 {"google_search": {}} 标记
//   - 认证方式：API Key 作为查询参数 ?key=XXX
//
// # 请求格式示例
//
//	{
//	  "contents": [{"parts": [{"text": "..."}]}],
//	  "systemInstruction": {"parts": [{"text": "..."}]},
//	  "tools": [{"google_search": {}}]
//	}
//
// # 响应解析
//
// [ExtractResult] 取 candidates[0].content.parts[0].text 作为正文，
// 并从 groundingMetadata.groundingAttributions 提取引用来源。
package gemini
