package guide

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"recipe-assistant/internal/pkg/common"
)

// Parser 將 AI 的自由文字回答轉為結構化的食譜指南
//
// Parser 不持有可變狀態，可被多個請求同時使用。
type Parser struct {
	strategies []StepStrategy
	checker    *Checker
}

// Option 設定 Parser
type Option func(*Parser)

// WithStrategies 替換步驟擷取策略的順序
func WithStrategies(strategies ...StepStrategy) Option {
	return func(p *Parser) {
		p.strategies = strategies
	}
}

// WithChecker 設定查詢與標題的一致性檢查器
func WithChecker(checker *Checker) Option {
	return func(p *Parser) {
		p.checker = checker
	}
}

// NewParser 創建新的解析器
func NewParser(opts ...Option) *Parser {
	p := &Parser{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse 解析 AI 回答；空白輸入返回 ErrInvalidInput 且不返回指南
func (p *Parser) Parse(text string) (*Guide, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "AI 응답이 비어있습니다.")
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	g := &Guide{
		Title:            extractTitle(normalized),
		Ingredients:      extractIngredients(normalized),
		Steps:            p.extractSteps(normalized),
		OriginalResponse: text,
	}

	if total := ExtractTotalMinutes(normalized); total > 0 {
		g.TotalTimeMinutes = total
	} else {
		g.TotalTimeMinutes = SumTimerMinutes(g.Steps)
	}

	common.LogDebug("解析食譜指南",
		zap.String("title", g.Title),
		zap.Int("steps", len(g.Steps)),
		zap.Int("ingredients", len(g.Ingredients)),
		zap.Int("total_minutes", g.TotalTimeMinutes),
	)

	return g, nil
}

// ParseWithQuery 解析後再與原始查詢比對標題
func (p *Parser) ParseWithQuery(text, query string) (*Guide, error) {
	g, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	p.Annotate(query, g)
	return g, nil
}

// Annotate 在不一致時寫入警告；未設定檢查器時不做任何事
func (p *Parser) Annotate(query string, g *Guide) {
	if p.checker == nil || g == nil || strings.TrimSpace(query) == "" {
		return
	}
	if warning := p.checker.Check(query, g.Title); warning != "" {
		g.ConsistencyWarning = warning
		common.LogWarn("食譜與查詢不一致",
			zap.String("query", query),
			zap.String("title", g.Title),
		)
	}
}

func (p *Parser) extractSteps(text string) []Step {
	for _, strategy := range p.strategies {
		steps := strategy(text)
		if len(steps) == 0 {
			continue
		}
		sort.SliceStable(steps, func(i, j int) bool {
			return steps[i].Number < steps[j].Number
		})
		return steps
	}
	return []Step{}
}

func extractTitle(text string) string {
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == titleLabel || startsWithStepMarker(line) || strings.Contains(line, ingredientsLabel) {
			continue
		}
		return line
	}
	return DefaultTitle
}

func startsWithStepMarker(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "step") ||
		strings.HasPrefix(line, "단계") ||
		strings.HasPrefix(line, "스텝")
}

// extractIngredients 材料區塊從「재료:」開始，到下一個步驟標記或全文結尾
func extractIngredients(text string) []string {
	loc := ingredientsPattern.FindStringIndex(text)
	if loc == nil {
		return []string{}
	}

	block := text[loc[1]:]
	if end := ingredientsEndPattern.FindStringIndex(block); end != nil {
		block = block[:end[0]]
	}

	ingredients := []string{}
	for _, m := range ingredientItemPattern.FindAllStringSubmatch(block, -1) {
		if item := strings.TrimSpace(m[1]); item != "" {
			ingredients = append(ingredients, item)
		}
	}
	if len(ingredients) > 0 {
		return ingredients
	}

	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ingredients = append(ingredients, line)
		}
	}
	return ingredients
}
