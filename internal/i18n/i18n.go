package i18n

import (
	"fmt"
	"strings"

	"github.com/haimart-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// T 按语言取消息文案，未命中时逐级回退：目标语言 → 越南语 → key 本身
func T(locale, key string) string {
	locale = NormalizeLocale(locale)
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleViVN][key]; ok {
		return msg
	}
	return key
}

// Sprintf 按语言取带占位符的消息文案并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// NormalizeLocale 归一化语言标签，未知语言回退到越南语
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	for _, supported := range constants.SupportedLocales {
		if strings.EqualFold(locale, supported) {
			return supported
		}
	}
	// 兼容 vi / zh / en 形式的短标签
	switch strings.ToLower(strings.SplitN(locale, "-", 2)[0]) {
	case "vi":
		return constants.LocaleViVN
	case "zh":
		return constants.LocaleZhCN
	case "en":
		return constants.LocaleEnUS
	}
	return constants.LocaleViVN
}

// ResolveLocale 从请求解析语言：?locale= 参数优先，其次 Accept-Language 头
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleViVN
	}
	if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
		return NormalizeLocale(locale)
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return constants.LocaleViVN
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return NormalizeLocale(first)
}
