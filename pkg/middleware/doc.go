// Package middleware 提供问答服务使用的 gin 中间件：
// 请求 ID 注入、访问日志、panic 恢复和跨域支持。
package middleware
