package errors

// Code 是稳定错误码（字符串），供 UI 层与脚本判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound    Code = "SPECTRUS_CFG_NOT_FOUND"
	CodeCfgInvalid     Code = "SPECTRUS_CFG_INVALID"
	CodeSecretNotFound Code = "SPECTRUS_SECRET_NOT_FOUND"

	// Keychain：凭据存储的操作失败（"不存在" 不是错误，不使用错误码）
	CodeKeychainFailed Code = "SPECTRUS_KEYCHAIN_FAILED"

	// Deep link
	CodeDeepLinkInvalid     Code = "SPECTRUS_DEEPLINK_INVALID"
	CodeDeepLinkUnavailable Code = "SPECTRUS_DEEPLINK_UNAVAILABLE"

	// Internal
	CodeInternal Code = "SPECTRUS_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeKeychainFailed,
		CodeDeepLinkInvalid,
		CodeDeepLinkUnavailable,
		CodeInternal,
	}
}
