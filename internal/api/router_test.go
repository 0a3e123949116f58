package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/database"
)

const stewAnswer = "레시피: 김치찌개\n재료:\n- 김치\n- 돼지고기\n\n단계 1: 돼지고기를 3분간 볶습니다.\n단계 2: 김치를 넣고 10분간 끓입니다."

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	Data       json.RawMessage `json:"data"`
}

type recorder struct {
	mu      sync.Mutex
	prompts []string
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

func newTestServer(t *testing.T) (http.Handler, *recorder) {
	t.Helper()
	return newTestServerWith(t, func(context.Context, string) (string, error) { return stewAnswer, nil })
}

func newTestServerWith(t *testing.T, answer func(context.Context, string) (string, error)) (http.Handler, *recorder) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	rec := &recorder{}
	gen := provider.Func{
		ProviderName: "stub",
		Fn: func(ctx context.Context, prompt string) (string, error) {
			rec.mu.Lock()
			rec.prompts = append(rec.prompts, prompt)
			rec.mu.Unlock()
			return answer(ctx, prompt)
		},
	}

	cfg := &config.Config{
		Chat:        config.ChatConfig{HistorySize: 10, QueryHistorySize: 10},
		DedupWindow: time.Nanosecond,
		Upload:      config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20},
	}
	vocab := guide.NewVocabulary(config.DefaultDishKeywords)
	svc := NewServices(cfg, db, service.NewService(gen, nil, nil), vocab)
	return SetupRouter(cfg, svc), rec
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestHealthRoutes(t *testing.T) {
	h, _ := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	code, _ := call(t, h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecipeStepsFlow(t *testing.T) {
	h, rec := newTestServer(t)

	code, env := call(t, h, http.MethodGet, "/api/ai/recipe-steps?query="+url.QueryEscape("김치찌개 레시피"), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "레시피 가이드가 성공적으로 생성되었습니다.", env.Message)

	var g guide.Guide
	decode(t, env.Data, &g)
	assert.Equal(t, "김치찌개", g.Title)
	assert.Len(t, g.Steps, 2)
	assert.Equal(t, 13, g.TotalTimeMinutes)
	assert.Equal(t, stewAnswer, g.OriginalResponse)
	assert.Equal(t, "김치찌개 레시피", rec.last())

	code, _ = call(t, h, http.MethodGet, "/api/ai/recipe-steps", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestChatAskRemembersRecipeQuery(t *testing.T) {
	h, rec := newTestServer(t)

	code, env := call(t, h, http.MethodPost, "/api/chat/ask", `{"sender":"tester","message":"김치찌개 레시피 알려줘"}`)
	require.Equal(t, http.StatusOK, code)
	var resp struct {
		RecipeDetected bool `json:"recipeDetected"`
	}
	decode(t, env.Data, &resp)
	assert.True(t, resp.RecipeDetected)

	// 一般查詢改用上一個成功的查詢
	code, _ = call(t, h, http.MethodGet, "/api/ai/recipe-steps?query="+url.QueryEscape("레시피"), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "김치찌개 레시피 알려줘", rec.last())

	code, env = call(t, h, http.MethodGet, "/api/chat/history?limit=2", "")
	require.Equal(t, http.StatusOK, code)
	var history []map[string]interface{}
	decode(t, env.Data, &history)
	assert.Len(t, history, 2)

	code, _ = call(t, h, http.MethodPost, "/api/chat/ask", `{"sender":"tester"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestIngredientSubstitute(t *testing.T) {
	h, rec := newTestServer(t)

	code, env := call(t, h, http.MethodGet, "/api/ai/ingredient-substitute?ingredient="+url.QueryEscape("버터"), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "재료 대체 추천이 성공적으로 완료되었습니다.", env.Message)
	assert.Equal(t, "버터 대신 사용할 수 있는 재료는?", rec.last())
}

func TestGuideEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := call(t, h, http.MethodPost, "/api/guide/parse", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	body, err := json.Marshal(map[string]string{"text": stewAnswer, "query": "된장찌개 만들기"})
	require.NoError(t, err)
	code, env = call(t, h, http.MethodPost, "/api/guide/parse", string(body))
	require.Equal(t, http.StatusOK, code)
	var g guide.Guide
	decode(t, env.Data, &g)
	assert.Contains(t, g.ConsistencyWarning, "된장찌개")

	code, env = call(t, h, http.MethodPost, "/api/guide/check", `{"query":"김치찌개 추천","title":"김치찌개"}`)
	require.Equal(t, http.StatusOK, code)
	var check struct {
		Warning *string `json:"warning"`
	}
	decode(t, env.Data, &check)
	assert.Nil(t, check.Warning)
}

func TestRecipeCRUD(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := call(t, h, http.MethodPost, "/api/recipes", `{"title":"비빔밥","difficulty":"easy","preparationTime":20,"ingredients":["밥","나물"]}`)
	require.Equal(t, http.StatusOK, code)
	var created struct {
		ID uint `json:"recipeId"`
	}
	decode(t, env.Data, &created)
	require.NotZero(t, created.ID)

	path := fmt.Sprintf("/api/recipes/%d", created.ID)
	code, _ = call(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, h, http.MethodGet, "/api/recipes/search?keyword="+url.QueryEscape("비빔"), "")
	require.Equal(t, http.StatusOK, code)
	var found []map[string]interface{}
	decode(t, env.Data, &found)
	assert.Len(t, found, 1)

	code, _ = call(t, h, http.MethodGet, "/api/recipes/cooking-time?minutes=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, h, http.MethodPost, "/api/recipes", `{"title":"라면"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)
	code, env = call(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCommunityRoutes(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := call(t, h, http.MethodPost, "/api/users/signup", `{"email":"a@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	var owner struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	decode(t, env.Data, &owner)
	assert.Equal(t, "a@example.com", owner.Username)
	assert.NotContains(t, string(env.Data), "secret")

	code, _ = call(t, h, http.MethodPost, "/api/users/signup", `{"email":"a@example.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, code)

	_, env = call(t, h, http.MethodPost, "/api/users", `{"email":"b@example.com","password":"secret"}`)
	var other struct {
		ID uint `json:"id"`
	}
	decode(t, env.Data, &other)

	_, env = call(t, h, http.MethodPost, "/api/recipes", `{"title":"잡채","difficulty":"HARD"}`)
	var r struct {
		ID uint `json:"recipeId"`
	}
	decode(t, env.Data, &r)

	code, env = call(t, h, http.MethodPost, "/api/comments", fmt.Sprintf(`{"recipeId":%d,"userId":%d,"content":"맛있어요"}`, r.ID, owner.ID))
	require.Equal(t, http.StatusOK, code)
	var c struct {
		ID uint `json:"commentId"`
	}
	decode(t, env.Data, &c)

	code, _ = call(t, h, http.MethodDelete, fmt.Sprintf("/api/comments/%d?userId=%d", c.ID, other.ID), "")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, h, http.MethodDelete, fmt.Sprintf("/api/comments/%d?userId=%d", c.ID, owner.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, http.MethodPost, "/api/favorites", fmt.Sprintf(`{"userId":%d,"recipeId":%d}`, owner.ID, r.ID))
	require.Equal(t, http.StatusOK, code)
	code, env = call(t, h, http.MethodGet, fmt.Sprintf("/api/favorites/users/%d", owner.ID), "")
	require.Equal(t, http.StatusOK, code)
	var favs []map[string]interface{}
	decode(t, env.Data, &favs)
	assert.Len(t, favs, 1)
	code, _ = call(t, h, http.MethodDelete, fmt.Sprintf("/api/favorites?userId=%d&recipeId=%d", owner.ID, r.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, http.MethodPost, fmt.Sprintf("/api/push/subscribe/%d", owner.ID), `{"endpoint":"https://push.example/1","keys":{"p256dh":"k","auth":"a"}}`)
	require.Equal(t, http.StatusOK, code)
	code, env = call(t, h, http.MethodPost, "/api/push/send-to-all", "새 레시피가 등록되었습니다")
	require.Equal(t, http.StatusOK, code)
	var sent struct {
		Sent int `json:"sent"`
	}
	decode(t, env.Data, &sent)
	assert.Equal(t, 1, sent.Sent)
}

func TestCoverUploadAndDownload(t *testing.T) {
	h, _ := newTestServer(t)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 3, 2))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "bibimbap.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/images/cover", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var cover struct {
		ID       uint   `json:"coverId"`
		FileName string `json:"fileName"`
		Width    int    `json:"width"`
	}
	decode(t, env.Data, &cover)
	assert.Contains(t, cover.FileName, "_bibimbap.jpg")
	assert.Equal(t, 3, cover.Width)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/images/%d", cover.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	_, format, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	code, _ := call(t, h, http.MethodGet, "/api/images/999", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecipeStepsReportsGeneratorFailure(t *testing.T) {
	h, _ := newTestServerWith(t, func(context.Context, string) (string, error) {
		return "", errors.New("exit status 1")
	})

	code, env := call(t, h, http.MethodGet, "/api/ai/recipe-steps?query="+url.QueryEscape("된장찌개 레시피"), "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "AI_SERVICE_ERROR", env.Code)
	assert.Empty(t, env.Data)
}
