package consts

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/28 17:56
 * @file: const_unified_resp.go
 * @description: 统一响应常量
 */

// handler 写入以下 Locals，由 UnifiedResponseMiddleware 包装为 {code, detail, msg}
const (
	// DETAIL 查询类接口返回的数据, c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION 写操作只返回结果, c.Locals(OPERATION, true)
	OPERATION = "operation"
)
