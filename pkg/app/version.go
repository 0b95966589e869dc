package app

// 构建信息，由 ldflags 注入。
var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion 返回构建版本号。
func GetVersion() string {
	return Version
}
