package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 凭据存储失败
	ExitKeychain ExitCode = 3

	// 4: deep link 无效或没有正在运行的实例
	ExitDeepLink ExitCode = 4

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretNotFound:
		return ExitConfig
	case CodeKeychainFailed:
		return ExitKeychain
	case CodeDeepLinkInvalid, CodeDeepLinkUnavailable:
		return ExitDeepLink
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
