package consts

// Locals keys
const (
	CLAIMS    = "claims"
	USERID    = "userId"
	REQUESTID = "request_id"
)

// Redis keys
const (
	// UserTokenKey 登录会话，value 为 refresh token，ttl 与 refresh token 一致
	UserTokenKey = "suitx:user:token:"
	// UserIdentityKey 用户身份缓存，用于邀请与邮件中的用户名、邮箱解析
	UserIdentityKey = "suitx:user:identity:"
)

// Queue task types
const (
	TaskTypeEmailSend = "email:send"
)
