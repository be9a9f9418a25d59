package context

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/labstack/echo/v4"
)

// KeyActor 已驗證的操作者
const KeyActor ContextKey = "actor"

// SetActor 由認證 middleware 寫入
func SetActor(c echo.Context, actor member.Actor) {
	c.Set(string(KeyActor), actor)
}

// GetActor 取得操作者；未經認證的路由返回 false
func GetActor(c echo.Context) (member.Actor, bool) {
	actor, ok := c.Get(string(KeyActor)).(member.Actor)
	return actor, ok
}
