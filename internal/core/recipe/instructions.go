package recipe

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	leadingStepMarker = regexp.MustCompile(`^\d+[.)]\s+`)
	errNotListLiteral = errors.New("not a list literal")
)

// NormalizeInstructions 將各種形式的步驟欄位轉為有序的步驟清單；無法解析時回傳空清單
func NormalizeInstructions(steps Steps) []string {
	if steps.IsList() {
		return steps.List()
	}

	text := strings.TrimSpace(steps.Text())
	if text == "" {
		return []string{}
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		if items, err := parseListLiteral(text); err == nil {
			return cleanSteps(items)
		}
	}

	if strings.Contains(text, "\n") {
		return cleanSteps(strings.Split(text, "\n"))
	}

	if chunks := splitNumbered(text); len(chunks) > 1 {
		return cleanSteps(chunks)
	}

	return cleanSteps(splitSentences(text))
}

// cleanSteps 去除前導標點與編號，並丟棄空白步驟
func cleanSteps(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		s = leadingStepMarker.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseListLiteral 解析 JSON 陣列或單/雙引號的字串清單字面值
func parseListLiteral(text string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, nil
	}
	return parseQuotedList(text)
}

func parseQuotedList(text string) ([]string, error) {
	runes := []rune(text)
	i := 1
	end := len(runes) - 1
	items := []string{}

	skipSpace := func() {
		for i < end && unicode.IsSpace(runes[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= end {
			return items, nil
		}

		quote := runes[i]
		if quote != '\'' && quote != '"' {
			return nil, errNotListLiteral
		}
		i++

		var sb strings.Builder
		closed := false
		for i < end {
			r := runes[i]
			if r == '\\' && i+1 < end {
				sb.WriteRune(unescape(runes[i+1]))
				i += 2
				continue
			}
			i++
			if r == quote {
				closed = true
				break
			}
			sb.WriteRune(r)
		}
		if !closed {
			return nil, errNotListLiteral
		}
		items = append(items, sb.String())

		skipSpace()
		if i >= end {
			return items, nil
		}
		if runes[i] != ',' {
			return nil, errNotListLiteral
		}
		i++
	}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return r
	}
}

// splitNumbered 依 "1." "2." 等編號切分。編號前須為開頭或空白、後面不可接數字，
// 且必須延續前一個編號（n 之後只接受 n+1），句尾的 "350." 之類數字不會被當成編號
func splitNumbered(text string) []string {
	type marker struct{ start, end, n int }
	var markers []marker

	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) || (i > 0 && !isSpaceByte(text[i-1])) {
			continue
		}
		j := i
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '.' && (j+1 == len(text) || !isDigit(text[j+1])) {
			n, err := strconv.Atoi(text[i:j])
			if err == nil && (len(markers) == 0 || n == markers[len(markers)-1].n+1) {
				markers = append(markers, marker{start: i, end: j + 1, n: n})
			}
		}
		i = j
	}

	if len(markers) < 2 {
		return nil
	}

	chunks := make([]string, 0, len(markers))
	for k, m := range markers {
		stop := len(text)
		if k+1 < len(markers) {
			stop = markers[k+1].start
		}
		chunks = append(chunks, text[m.end:stop])
	}
	return chunks
}

// splitSentences 以句點切分，但不切開數字中的小數點（如 3.5）
func splitSentences(text string) []string {
	var parts []string
	last := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '.' {
			continue
		}
		if i > 0 && isDigit(text[i-1]) {
			continue
		}
		if i+1 < len(text) && isDigit(text[i+1]) {
			continue
		}
		parts = append(parts, text[last:i])
		last = i + 1
	}
	parts = append(parts, text[last:])
	return parts
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
