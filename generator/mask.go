package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const previewRunes = 200

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@([A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
)

// Preview 返回可写入日志的输入摘要：截断到 200 个字符，邮箱与电话号码打码。
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = MaskEmails(text)
	text = MaskPhones(text)
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes]) + "…"
}

// MaskEmails 隐藏邮箱的本地部分，保留域名。
func MaskEmails(text string) string {
	return emailPattern.ReplaceAllString(text, "****@$1")
}

// MaskPhones masks phone-like digit runs, preserving only the last 4 digits.
func MaskPhones(text string) string {
	return phonePattern.ReplaceAllStringFunc(text, func(match string) string {
		digits := make([]rune, 0, len(match))
		for _, r := range match {
			if r >= '0' && r <= '9' {
				digits = append(digits, r)
			}
		}
		// 年份区间（2018 - 2022）之类的短数字串不是电话。
		if len(digits) < 9 && !strings.HasPrefix(match, "+") {
			return match
		}
		return maskLast4(string(digits))
	})
}

func maskLast4(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****" + value
	}
	return "****" + value[len(value)-4:]
}
