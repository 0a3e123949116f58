package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/pkg/common"
)

// ImageHandler 食譜封面上傳與讀取
type ImageHandler struct {
	images *image.Service
}

func NewImageHandler(images *image.Service) *ImageHandler {
	return &ImageHandler{images: images}
}

// HandleUploadCover multipart 欄位 file，或表單欄位 imageData (data URI)
func (h *ImageHandler) HandleUploadCover(c *gin.Context) {
	var recipeID *uint
	if raw := c.PostForm("recipeId"); raw != "" {
		id, err := parseUint(raw, "recipeId")
		if err != nil {
			Fail(c, err)
			return
		}
		recipeID = &id
	}

	name := "cover"
	var data []byte
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			BadRequest(c, err)
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			BadRequest(c, err)
			return
		}
		name = fh.Filename
	} else if uri := c.PostForm("imageData"); uri != "" {
		if data, err = image.DecodeDataURI(uri); err != nil {
			Fail(c, err)
			return
		}
	} else {
		Fail(c, common.WithMessage(common.ErrInvalidInput, "이미지가 첨부되지 않았습니다."))
		return
	}

	cover, err := h.images.Upload(c.Request.Context(), recipeID, name, data)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, cover, "이미지가 업로드되었습니다.")
}

func (h *ImageHandler) HandleGetCover(c *gin.Context) {
	id, err := UintParam(c, "coverId")
	if err != nil {
		Fail(c, err)
		return
	}
	cover, err := h.images.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.Header("Content-Type", cover.ContentType)
	c.File(h.images.Path(cover))
}
