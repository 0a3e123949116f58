package rag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// Name 回應來源名稱
const Name = "RAG"

// Runner 以子行程執行外部 Python RAG 腳本
type Runner struct {
	config  config.RAGConfig
	timeout time.Duration
}

// envelope 腳本輸出的 JSON 外層
type envelope struct {
	Data *struct {
		Answer *string `json:"answer"`
	} `json:"data"`
}

// NewRunner 創建 RAG 執行器
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		config:  cfg.RAG,
		timeout: cfg.AI.Timeout,
	}
}

// Name 實作 provider.Generator
func (r *Runner) Name() string {
	return Name
}

// Generate 執行食譜 RAG 腳本並返回回答
func (r *Runner) Generate(ctx context.Context, question string) (string, error) {
	return r.run(ctx, r.config.RecipeScript, question)
}

// GenerateWithContext 將提示寫入暫存檔後執行烹飪指南腳本
func (r *Runner) GenerateWithContext(ctx context.Context, prompt, contextJSON string) (string, error) {
	f, err := os.CreateTemp("", "prompt_*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create prompt file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(prompt); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write prompt file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close prompt file: %w", err)
	}

	if strings.TrimSpace(contextJSON) == "" {
		contextJSON = "{}"
	}
	return r.run(ctx, r.config.CookingGuideScript, path, contextJSON)
}

func (r *Runner) run(ctx context.Context, script string, scriptArgs ...string) (string, error) {
	ctx, cancel := provider.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append([]string{}, r.config.Args...)
	args = append(args, filepath.Join(r.config.ScriptDirectory, script))
	args = append(args, scriptArgs...)

	cmd := exec.CommandContext(ctx, r.config.PythonPath, args...)
	cmd.Env = append(os.Environ(),
		"PYTHONPATH="+r.config.ScriptDirectory,
		"PYTHONIOENCODING=utf-8",
		"LANG=ko_KR.UTF-8",
	)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			common.LogError("RAG 腳本逾時",
				zap.String("script", script),
				zap.Duration("耗時", duration),
			)
			return "", common.Wrap(common.ErrGatewayTimeout, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			common.LogError("RAG 腳本執行失敗",
				zap.String("script", script),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.String("stderr", common.Preview(msg, 200)),
			)
			return "", common.Wrap(common.ErrAIServiceError, fmt.Errorf("Python 실행 오류: %s", msg))
		}
		return "", common.Wrap(common.ErrAIServiceError, err)
	}

	common.LogDebug("RAG 腳本完成",
		zap.String("script", script),
		zap.Duration("耗時", duration),
		zap.Int("output_bytes", stdout.Len()),
	)

	return extractAnswer(strings.TrimSpace(stdout.String())), nil
}

// extractAnswer 輸出為含 data.answer 的 JSON 時取出回答，否則返回原文
func extractAnswer(output string) string {
	if !strings.HasPrefix(output, "{") {
		return output
	}
	var env envelope
	if err := common.ParseJSON(output, &env); err != nil {
		return output
	}
	if env.Data == nil || env.Data.Answer == nil {
		return output
	}
	return *env.Data.Answer
}
