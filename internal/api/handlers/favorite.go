package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/favorite"
)

// FavoriteHandler 收藏
type FavoriteHandler struct {
	favorites *favorite.Service
}

func NewFavoriteHandler(favorites *favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) HandleListAll(c *gin.Context) {
	favs, err := h.favorites.ListAll(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, favs, "")
}

func (h *FavoriteHandler) HandleListByUser(c *gin.Context) {
	userID, err := UintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	favs, err := h.favorites.ListByUser(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, favs, "")
}

func (h *FavoriteHandler) HandleGet(c *gin.Context) {
	id, err := UintParam(c, "favoriteId")
	if err != nil {
		Fail(c, err)
		return
	}
	fav, err := h.favorites.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, fav, "")
}

func (h *FavoriteHandler) HandleAdd(c *gin.Context) {
	var req favorite.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	fav, err := h.favorites.Add(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, fav, "즐겨찾기에 추가되었습니다.")
}

// HandleRemove 以 userId 與 recipeId 查詢參數移除
func (h *FavoriteHandler) HandleRemove(c *gin.Context) {
	userID, err := UintQuery(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	recipeID, err := UintQuery(c, "recipeId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), userID, recipeID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil, "즐겨찾기에서 삭제되었습니다.")
}
