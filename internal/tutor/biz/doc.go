// Package biz 实现讲座辅导服务的业务逻辑。
// 包含问题分类、检索增强应答和转写入库三个核心能力。
package biz
