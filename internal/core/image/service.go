package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 支援 WebP
	"gorm.io/gorm"

	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

const (
	jpegQuality     = 85
	jpegContentType = "image/jpeg"
)

var (
	// ErrImageTooLarge 圖片超過大小上限
	ErrImageTooLarge = common.WithMessage(common.ErrInvalidInput, "이미지 크기가 너무 큽니다.")
	// ErrCoverNotFound 封面不存在
	ErrCoverNotFound = common.WithMessage(common.ErrNotFound, "이미지를 찾을 수 없습니다.")
)

// Service 封面圖片處理：解碼、轉為 JPEG、寫入上傳目錄並記錄
type Service struct {
	db           *gorm.DB
	dir          string
	maxSizeBytes int64
}

// NewService 創建新的圖片處理服務
func NewService(db *gorm.DB, dir string, maxSizeBytes int64) *Service {
	return &Service{db: db, dir: dir, maxSizeBytes: maxSizeBytes}
}

// Normalize 解碼圖片並重新編碼為 JPEG，返回 JPEG 資料與尺寸
func (s *Service) Normalize(data []byte) ([]byte, image.Point, error) {
	if len(data) == 0 {
		return nil, image.Point{}, common.WithMessage(common.ErrInvalidInput, "이미지가 첨부되지 않았습니다.")
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, image.Point{}, ErrImageTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, common.WithMessage(common.ErrInvalidInput, "이미지를 해석할 수 없습니다: "+err.Error())
	}
	if !isSupportedFormat(format) {
		return nil, image.Point{}, common.WithMessage(common.ErrInvalidInput, "지원하지 않는 이미지 형식입니다: "+format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, image.Point{}, fmt.Errorf("failed to encode image as JPEG: %w", err)
	}
	return buf.Bytes(), img.Bounds().Size(), nil
}

// DecodeDataURI 解析 data:image/...;base64, 格式
func DecodeDataURI(imageData string) ([]byte, error) {
	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, common.WithMessage(common.ErrInvalidInput, "잘못된 이미지 데이터 형식입니다.")
	}
	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 {
		return nil, common.WithMessage(common.ErrInvalidInput, "잘못된 base64 데이터 형식입니다.")
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, common.WithMessage(common.ErrInvalidInput, "base64 디코딩에 실패했습니다.")
	}
	return decoded, nil
}

// Upload 保存封面；檔名為 UUID 加上原始檔名
func (s *Service) Upload(ctx context.Context, recipeID *uint, originalName string, data []byte) (*model.Cover, error) {
	if recipeID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", *recipeID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, common.WithMessage(common.ErrNotFound, "레시피를 찾을 수 없습니다.")
		}
	}

	jpg, size, err := s.Normalize(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	fileName := common.GenerateUUID() + "_" + baseName(originalName) + ".jpg"
	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, jpg, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	cover := &model.Cover{
		RecipeID:    recipeID,
		FileName:    fileName,
		ContentType: jpegContentType,
		Width:       size.X,
		Height:      size.Y,
		SizeBytes:   int64(len(jpg)),
	}
	if err := s.db.WithContext(ctx).Create(cover).Error; err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	common.LogInfo("封面圖片已上傳",
		zap.Uint("cover_id", cover.ID),
		zap.String("file", fileName),
		zap.Int64("size", cover.SizeBytes),
	)
	return cover, nil
}

// Get 依 ID 取得封面
func (s *Service) Get(ctx context.Context, id uint) (*model.Cover, error) {
	var cover model.Cover
	if err := s.db.WithContext(ctx).First(&cover, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverNotFound
		}
		return nil, err
	}
	return &cover, nil
}

// Path 封面檔案在磁碟上的位置
func (s *Service) Path(cover *model.Cover) string {
	return filepath.Join(s.dir, filepath.Base(cover.FileName))
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

// baseName 去掉路徑與副檔名，只保留安全字元
func baseName(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r > 0x7f && r != 0xfffd:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "cover"
	}
	return b.String()
}
