package ai

// Answer 一次回答生成的結果
type Answer struct {
	Content string `json:"answer"`
	// Source 產生回答的後端名稱，快取命中時仍為後端名稱並設定 CacheHit
	Source        string  `json:"source"`
	ExecutionTime float64 `json:"executionTime"`
	CacheHit      bool    `json:"cacheHit"`
}
