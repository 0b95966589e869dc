// Package store 提供讲座转写块的向量存储层。
package store
