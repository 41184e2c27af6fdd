package repo

import (
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/google/wire"
)

// ProviderSet 提供仓储层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideRepositories,
)

// ProvideRepositories 提供所有仓储实例
func ProvideRepositories(db database.IDatabase) *Repositories {
	return NewRepositories(db)
}
