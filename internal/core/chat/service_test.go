package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipe-assistant/internal/core/ai"
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/infrastructure/database"
	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

const stewAnswer = "레시피: 김치찌개\n재료:\n- 김치\n- 돼지고기\n\n단계 1: 돼지고기를 3분간 볶습니다.\n단계 2: 김치를 넣고 10분간 끓입니다."

type stubAsker struct {
	answer      string
	err         error
	lastPrompt  string
	lastContext string
}

func (s *stubAsker) Ask(ctx context.Context, prompt string) (*ai.Answer, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Answer{Content: s.answer, Source: "RAG", ExecutionTime: 1.5}, nil
}

func (s *stubAsker) AskWithContext(ctx context.Context, prompt, contextJSON string) (*ai.Answer, error) {
	s.lastContext = contextJSON
	return s.Ask(ctx, prompt)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestService(t *testing.T, asker Asker, historySize int) *Service {
	vocab := guide.NewVocabulary([]string{"김치찌개", "된장찌개"})
	parser := guide.NewParser(guide.WithChecker(guide.NewChecker(vocab)))
	return NewService(newTestDB(t), asker, parser, historySize)
}

func TestProcessEnhancedDetectsRecipe(t *testing.T) {
	svc := newTestService(t, &stubAsker{answer: stewAnswer}, 10)

	resp := svc.ProcessEnhanced(context.Background(), "user", "김치찌개 레시피 알려줘")

	require.True(t, resp.RecipeDetected)
	require.NotNil(t, resp.RecipeGuide)
	assert.Equal(t, "김치찌개", resp.RecipeGuide.Title)
	assert.Len(t, resp.RecipeGuide.Steps, 2)
	assert.Equal(t, 13, resp.RecipeGuide.TotalTimeMinutes)
	assert.Equal(t, 1.5, resp.RecipeGuide.ExecutionTime)
	assert.Empty(t, resp.RecipeGuide.ConsistencyWarning)
	assert.Equal(t, "RAG", resp.Source)

	require.Len(t, resp.ConversationContext, 2)
	assert.Equal(t, model.MessageTypeUser, resp.ConversationContext[0].MessageType)
	assert.Equal(t, model.MessageTypeAI, resp.ConversationContext[1].MessageType)
}

func TestProcessEnhancedWarnsOnMismatch(t *testing.T) {
	answer := "레시피: 된장찌개\n재료:\n- 된장\n\n단계 1: 5분간 끓입니다."
	svc := newTestService(t, &stubAsker{answer: answer}, 10)

	resp := svc.ProcessEnhanced(context.Background(), "user", "김치찌개 레시피")

	require.NotNil(t, resp.RecipeGuide)
	assert.NotEmpty(t, resp.RecipeGuide.ConsistencyWarning)
}

func TestProcessEnhancedSkipsNonRecipe(t *testing.T) {
	svc := newTestService(t, &stubAsker{answer: stewAnswer}, 10)

	resp := svc.ProcessEnhanced(context.Background(), "user", "오늘 날씨 어때?")

	assert.False(t, resp.RecipeDetected)
	assert.Nil(t, resp.RecipeGuide)
	assert.Equal(t, stewAnswer, resp.Answer)
}

func TestProcessAIFailure(t *testing.T) {
	svc := newTestService(t, &stubAsker{err: common.Wrap(common.ErrAIServiceError, errors.New("exit status 1"))}, 10)

	resp := svc.Process(context.Background(), "user", "김치찌개 레시피")

	assert.Equal(t, "오류가 발생했습니다.", resp.Answer)
	assert.Equal(t, "Error", resp.Source)
	assert.Zero(t, resp.ExecutionTime)
	require.Len(t, resp.ConversationContext, 2)
	assert.Equal(t, model.MessageTypeSystem, resp.ConversationContext[1].MessageType)
	assert.Equal(t, "SYSTEM", resp.ConversationContext[1].Sender)
}

func TestHistoryIsCapped(t *testing.T) {
	svc := newTestService(t, &stubAsker{answer: "네"}, 4)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.Process(ctx, "user", fmt.Sprintf("질문 %d", i))
	}

	recent := svc.ConversationHistory()
	require.Len(t, recent, 4)
	assert.Equal(t, "질문 3", recent[0].Message)
	assert.Equal(t, "네", recent[3].Message)

	stored, err := svc.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "네", stored[0].Message)
	assert.Equal(t, "질문 4", stored[1].Message)

	all, err := svc.History(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestProcessWithContext(t *testing.T) {
	asker := &stubAsker{answer: "중불로 줄이세요."}
	svc := newTestService(t, asker, 10)

	resp := svc.ProcessWithContext(context.Background(), "user", "불 세기는?", RecipeContext{
		RecipeTitle: "김치찌개",
		CurrentStep: 2,
		TotalSteps:  5,
		RecipeType:  "찌개",
	})

	assert.Equal(t, "중불로 줄이세요.", resp.Answer)
	assert.Contains(t, asker.lastPrompt, "현재 요리 중인 레시피: 김치찌개")
	assert.Contains(t, asker.lastPrompt, "현재 단계: 2/5")
	assert.Contains(t, asker.lastPrompt, "요리 유형: 찌개")
	assert.Contains(t, asker.lastPrompt, "사용자 질문: 불 세기는?")
	assert.JSONEq(t, `{"recipeTitle":"김치찌개","currentStep":2,"totalSteps":5,"recipeType":"찌개"}`, asker.lastContext)
}

func TestHistoryWithoutDatabase(t *testing.T) {
	svc := NewService(nil, &stubAsker{answer: "네"}, guide.NewParser(), 10)
	svc.Process(context.Background(), "user", "안녕")

	msgs, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "네", msgs[0].Message)
}
