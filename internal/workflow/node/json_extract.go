package node

import (
	"strings"
)

// Extractor 从模型输出中截取 JSON 文本，未找到时返回 false
type Extractor func(text string) (string, bool)

// DefaultExtractors 默认提取顺序：```json 代码块、裸 ``` 代码块、第一个括号平衡的 {...}
var DefaultExtractors = []Extractor{
	FencedJSONBlock,
	FencedBlock,
	BalancedObject,
}

// ExtractJSON 按顺序尝试提取器，第一个成功者胜出
func ExtractJSON(text string, extractors ...Extractor) (string, bool) {
	if len(extractors) == 0 {
		extractors = DefaultExtractors
	}
	for _, ex := range extractors {
		if out, ok := ex(text); ok {
			return out, true
		}
	}
	return "", false
}

// ExtractJSONObject 提取失败时返回去除首尾空白的原文，交由解析器报错
func ExtractJSONObject(s string) string {
	if out, ok := ExtractJSON(s); ok {
		return out
	}
	return strings.TrimSpace(s)
}

const fence = "```"

// FencedJSONBlock 提取 ```json ... ``` 代码块（标签大小写不敏感）
func FencedJSONBlock(text string) (string, bool) {
	lower := strings.ToLower(text)
	start := strings.Index(lower, fence+"json")
	if start < 0 {
		return "", false
	}
	body := text[start+len(fence)+len("json"):]
	end := strings.Index(body, fence)
	if end < 0 {
		return "", false
	}
	out := strings.TrimSpace(body[:end])
	return out, out != ""
}

// FencedBlock 提取第一个内容以 { 或 [ 开头的 ``` 代码块，允许带非 json 的语言标签
func FencedBlock(text string) (string, bool) {
	rest := text
	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			return "", false
		}
		body := rest[start+len(fence):]
		end := strings.Index(body, fence)
		if end < 0 {
			return "", false
		}
		content := body[:end]
		if nl := strings.IndexByte(content, '\n'); nl >= 0 && isLanguageTag(content[:nl]) {
			content = content[nl+1:]
		}
		content = strings.TrimSpace(content)
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content, true
		}
		rest = body[end+len(fence):]
	}
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// BalancedObject 提取第一个括号平衡的 {...} 区域，忽略字符串字面量中的括号与转义
func BalancedObject(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		start := strings.IndexByte(text[offset:], '{')
		if start < 0 {
			return "", false
		}
		start += offset
		if end, ok := matchBrace(text, start); ok {
			return text[start : end+1], true
		}
		offset = start + 1
	}
	return "", false
}

// matchBrace 返回与 text[start] 处 '{' 配对的 '}' 位置
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
