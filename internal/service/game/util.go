package game

import (
	"github.com/google/uuid"
)

// GenID 生成 8 位短游戏 ID
func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("生成 UUID 失败: " + err.Error())
	}

	s := id.String()

	return s[len(s)-8:]
}
