// Package milvusopts 提供 Milvus 客户端配置。
package milvusopts

import (
	"fmt"
	"time"

	"github.com/kart-io/lecture-tutor/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options 定义 Milvus 连接配置。
type Options struct {
	// Address Milvus 服务地址（host:port）。
	Address string `json:"address" mapstructure:"address"`

	// Database 使用的数据库名。
	Database string `json:"database" mapstructure:"database"`

	// Username 认证用户名，留空表示无认证。
	Username string `json:"username" mapstructure:"username"`

	// Password 认证密码。
	Password string `json:"password" mapstructure:"password"`

	// Timeout 连接与操作超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions 创建默认 Milvus 配置。
func NewOptions() *Options {
	return &Options{
		Address:  "localhost:19530",
		Database: "default",
		Timeout:  30 * time.Second,
	}
}

// AddFlags adds flags for Milvus options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Address, options.Join(prefixes...)+"milvus.address", o.Address, "Milvus server address (host:port).")
	fs.StringVar(&o.Database, options.Join(prefixes...)+"milvus.database", o.Database, "Milvus database name.")
	fs.StringVar(&o.Username, options.Join(prefixes...)+"milvus.username", o.Username, "Milvus username for authentication.")
	fs.StringVar(&o.Password, options.Join(prefixes...)+"milvus.password", o.Password, "Milvus password for authentication.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"milvus.timeout", o.Timeout, "Connection and operation timeout.")
}

// Validate validates the Milvus options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Address == "" {
		errs = append(errs, fmt.Errorf("milvus address is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("milvus timeout must be positive"))
	}
	return errs
}
