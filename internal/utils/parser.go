package utils

import (
	"strconv"
	"strings"
)

// NormalizeKeyword 去掉首尾空白并合并连续空白
func NormalizeKeyword(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseID 解析路径中的正整数 ID
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseIntDefault 解析整数，空串或非法时返回默认值
func ParseIntDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
