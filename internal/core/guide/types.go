package guide

// Guide 由一次 AI 回答轉換而來的結構化食譜指南
type Guide struct {
	Title              string   `json:"title"`
	Steps              []Step   `json:"steps"`
	Ingredients        []string `json:"ingredients"`
	TotalTimeMinutes   int      `json:"totalTimeMinutes"`
	ExecutionTime      float64  `json:"executionTime"`
	OriginalResponse   string   `json:"originalResponse"`
	ConsistencyWarning string   `json:"consistencyWarning,omitempty"`
}

// Step 食譜指南中的單一步驟
type Step struct {
	Number          int      `json:"stepNumber"`
	Instruction     string   `json:"instruction"`
	TimerMinutes    int      `json:"timerMinutes"`
	StepIngredients []string `json:"stepIngredients"`
	Tip             string   `json:"tip,omitempty"`
}

// newStep 建立步驟並擷取計時分鐘數
func newStep(number int, instruction string) Step {
	return Step{
		Number:          number,
		Instruction:     instruction,
		TimerMinutes:    ExtractTimerMinutes(instruction),
		StepIngredients: []string{},
	}
}

// HasSteps 是否至少解析出一個步驟
func (g *Guide) HasSteps() bool {
	return g != nil && len(g.Steps) > 0
}
