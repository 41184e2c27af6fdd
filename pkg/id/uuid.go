package id

import (
	"strings"

	"github.com/google/uuid"
)

/**
 * @author: HuaiAn xu
 * @date: 2024-05-02 00:34:31
 * @file: uuid.go
 * @description: id util
 */

func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes 用作用户、项目等业务主键
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
