package recipe

// Request 建立或更新食譜的請求
type Request struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Instructions    string   `json:"instructions"`
	PreparationTime int      `json:"preparationTime" binding:"gte=0"`
	Difficulty      string   `json:"difficulty"`
	Ingredients     []string `json:"ingredients"`
	AuthorID        *uint    `json:"authorId,omitempty"`
}

// RecommendRequest 推薦條件，零值欄位不參與篩選
type RecommendRequest struct {
	Difficulty      string   `json:"difficulty"`
	PreparationTime int      `json:"preparationTime"`
	Ingredients     []string `json:"ingredients"`
}

// 最多推薦數量
const maxRecommendations = 5
