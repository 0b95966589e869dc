package app

import "github.com/spf13/pflag"

// CliOptions 是应用级选项需要实现的接口。
// App 在命令构建时注册其 flags，在运行前完成并校验。
type CliOptions interface {
	// AddFlags 注册全部命令行 flags。
	AddFlags(fs *pflag.FlagSet)

	// Validate 在运行前校验选项。
	Validate() error

	// Complete 填充默认值与派生值。
	Complete() error
}
