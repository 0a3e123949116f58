package guide

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StepStrategy 從全文擷取步驟；沒有結果時返回空切片
type StepStrategy func(text string) []Step

// DefaultStrategies 預設的步驟擷取順序，第一個有結果的策略勝出
func DefaultStrategies() []StepStrategy {
	return []StepStrategy{
		CombinedMarkerStrategy,
		EnglishMarkerStrategy,
		ParagraphStrategy,
	}
}

// CombinedMarkerStrategy 以「단계 / 스텝 / Step + 數字 + 分隔符」切分步驟
func CombinedMarkerStrategy(text string) []Step {
	return segmentByMarkers(text, combinedStepPattern, combinedBoundaryPattern)
}

// EnglishMarkerStrategy 僅以「Step N:」切分步驟
func EnglishMarkerStrategy(text string) []Step {
	return segmentByMarkers(text, englishStepPattern, englishBoundaryPattern)
}

// segmentByMarkers 每個標記的內容延伸到下一個邊界或全文結尾
func segmentByMarkers(text string, marker, boundary *regexp.Regexp) []Step {
	markers := marker.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return nil
	}
	boundaries := boundary.FindAllStringIndex(text, -1)

	steps := make([]Step, 0, len(markers))
	for _, m := range markers {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}

		end := len(text)
		for _, b := range boundaries {
			if b[0] >= m[1] {
				end = b[0]
				break
			}
		}

		instruction := strings.TrimSpace(text[m[1]:end])
		if instruction == "" {
			continue
		}
		steps = append(steps, newStep(number, instruction))
	}
	return steps
}

// ParagraphStrategy 以空行切分段落，材料區塊之後的有效段落依序成為步驟
func ParagraphStrategy(text string) []Step {
	var steps []Step
	number := 1
	ingredientsPassed := false

	for _, paragraph := range paragraphSeparator.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if !ingredientsPassed && isIngredientsParagraph(paragraph) {
			ingredientsPassed = true
			continue
		}

		if isHeaderParagraph(paragraph) || isNumberedListItem(paragraph) {
			continue
		}

		if ingredientsPassed && utf8.RuneCountInString(paragraph) > minParagraphRunes {
			steps = append(steps, newStep(number, paragraph))
			number++
		}
	}
	return steps
}

func isIngredientsParagraph(paragraph string) bool {
	return strings.HasPrefix(paragraph, ingredientsLabel) || strings.Contains(paragraph, ingredientsList)
}

// isHeaderParagraph 標題或總時間段落
func isHeaderParagraph(paragraph string) bool {
	return strings.HasPrefix(paragraph, titleLabel) ||
		strings.Contains(paragraph, totalTimeLabel) ||
		totalTimePattern.MatchString(paragraph)
}

// isNumberedListItem 單行的「N. xxx」項目；多行段落即使以編號開頭也保留
func isNumberedListItem(paragraph string) bool {
	return !strings.Contains(paragraph, "\n") && numberedItemLine.MatchString(paragraph)
}
