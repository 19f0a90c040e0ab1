package recipe

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	nutritionalNoteMarker = "Nutritional Note:"
	recipeNamePrefix      = "Recipe Name:"
	trailingBoilerplate   = "of the user."

	SectionName            = "name"
	SectionIngredients     = "ingredients"
	SectionInstructions    = "instructions"
	SectionNutritionalNote = "nutritional_note"
)

var blankLine = regexp.MustCompile(`\n\s*\n`)

// ParsedResponse 模型輸出的解析結果
type ParsedResponse struct {
	Body            string
	Recipe          GeneratedRecipe
	MissingSections []string
}

// ParseResponse 以位置規則解析模型輸出，缺少的段落一律回傳空值而不報錯
//
// 段落以空行分隔：第 0 段為名稱、第 1 段為食材、第 3 段為步驟。
func ParseResponse(raw string, width int) ParsedResponse {
	var out ParsedResponse

	body := raw
	if idx := strings.Index(raw, nutritionalNoteMarker); idx >= 0 {
		body = raw[:idx]
		out.Recipe.NutritionalNote = wrapText(strings.TrimSpace(raw[idx+len(nutritionalNoteMarker):]), width)
	}
	body = strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(body), trailingBoilerplate, ""))
	out.Body = body

	var sections []string
	if body != "" {
		sections = blankLine.Split(body, -1)
	}
	// 沒有任何空行分隔時視為格式不符
	if len(sections) < 2 {
		sections = nil
	}

	out.Recipe.Name = parseName(sectionAt(sections, 0))
	out.Recipe.Ingredients = parseIngredients(sectionAt(sections, 1))
	out.Recipe.Instructions = parseInstructionLines(sectionAt(sections, 3))

	if out.Recipe.Name == "" {
		out.MissingSections = append(out.MissingSections, SectionName)
	}
	if len(out.Recipe.Ingredients) == 0 {
		out.MissingSections = append(out.MissingSections, SectionIngredients)
	}
	if len(out.Recipe.Instructions) == 0 {
		out.MissingSections = append(out.MissingSections, SectionInstructions)
	}
	if out.Recipe.NutritionalNote == "" {
		out.MissingSections = append(out.MissingSections, SectionNutritionalNote)
	}

	return out
}

func sectionAt(sections []string, i int) string {
	if i < len(sections) {
		return strings.TrimSpace(sections[i])
	}
	return ""
}

func parseName(section string) string {
	return strings.TrimSpace(strings.TrimPrefix(section, recipeNamePrefix))
}

func parseIngredients(section string) []string {
	lines := strings.Split(section, "\n")
	if len(lines) > 0 && isLabelLine(lines[0], "ngredients") {
		first := lines[0]
		lines[0] = first[strings.Index(first, ":")+1:]
	}

	out := []string{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseInstructionLines(section string) []string {
	out := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isLabelLine(line, "nstructions") && strings.HasSuffix(line, ":") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// isLabelLine 判斷是否為 "Ingredients:" 之類的標題行
func isLabelLine(line, word string) bool {
	colon := strings.Index(line, ":")
	return colon >= 0 && strings.Contains(line[:colon], word)
}

// wrapText 依寬度斷行，以單字為單位，超長單字獨佔一行
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(words, " ")
	}

	var b strings.Builder
	lineLen := 0
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		switch {
		case lineLen == 0:
		case lineLen+1+wl > width:
			b.WriteByte('\n')
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(w)
		lineLen += wl
	}
	return b.String()
}
