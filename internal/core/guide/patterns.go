package guide

import "regexp"

const (
	// DefaultTitle 無法擷取標題時使用的預設標題
	DefaultTitle = "레시피 가이드"

	titleLabel       = "레시피:"
	ingredientsLabel = "재료:"
	ingredientsList  = "재료 목록"
	totalTimeLabel   = "총 조리시간"

	// 段落必須超過此長度（以字元計）才視為步驟
	minParagraphRunes = 10
)

var (
	titlePattern          = regexp.MustCompile(`(?i)레시피:[ \t]*([^\n]+)`)
	ingredientsPattern    = regexp.MustCompile(`재료:\s+`)
	ingredientsEndPattern = regexp.MustCompile(`Step|단계|스텝`)
	ingredientItemPattern = regexp.MustCompile(`(?m)^[ \t]*[-•●][ \t]*([^\n]+)`)

	// 韓英混合的步驟標記與其邊界
	combinedStepPattern     = regexp.MustCompile(`(?i)(?:단계|스텝|Step)\s*(\d+)[:.]\s*`)
	combinedBoundaryPattern = regexp.MustCompile(`(?i)(?:단계|스텝|Step)\s*\d+`)

	// 僅英文的步驟標記與其邊界
	englishStepPattern     = regexp.MustCompile(`Step (\d+)[:.]\s*`)
	englishBoundaryPattern = regexp.MustCompile(`Step \d+`)

	timerPattern     = regexp.MustCompile(`(\d+)\s*분(?:간|\s+소요|\s+정도)?`)
	totalTimePattern = regexp.MustCompile(`(?i)총\s*(?:조리)?\s*시간:?\s*(\d+)\s*분`)

	paragraphSeparator = regexp.MustCompile(`\n[ \t]*\n`)
	numberedItemLine   = regexp.MustCompile(`^\d+\.`)
)
