package id

import "github.com/rs/xid"

// GetXid 生成 20 位 xid，用于请求 id
func GetXid() string {
	return xid.New().String()
}
