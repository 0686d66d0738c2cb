package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/dto"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/middleware"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/utils"
)

// PhotoshootService 拍摄批次应用服务
type PhotoshootService interface {
	Create(ctx context.Context, in photoshoot.CreateInput) (*photoshoot.CreateResult, error)
	Get(ctx context.Context, userID, batchID string) (*entity.PhotoshootBatch, error)
	List(ctx context.Context, userID string, page repository.Pagination) (*repository.PagedResult[*entity.PhotoshootBatch], error)
}

// PhotoshootHandler 拍摄批次处理器
type PhotoshootHandler struct {
	svc       PhotoshootService
	validator *utils.Validator
}

// NewPhotoshootHandler 创建拍摄批次处理器
func NewPhotoshootHandler(svc PhotoshootService, validator *utils.Validator) *PhotoshootHandler {
	return &PhotoshootHandler{svc: svc, validator: validator}
}

// CreatePhotoshoot 创建拍摄批次
// @Summary 创建拍摄批次
// @Description 把一张主图概念扩展成 6-9 张共享种子的姿势变体并提交渲染
// @Tags Photoshoots
// @Accept json
// @Produce json
// @Param body body dto.CreatePhotoshootRequest true "批次参数"
// @Success 200 {object} dto.CreatePhotoshootResponse
// @Failure 400,401,402,404,409,429,500 {object} map[string]any
// @Router /photoshoots [post]
func (h *PhotoshootHandler) CreatePhotoshoot(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	if userID == "" {
		dto.Unauthorized(c, "unauthorized")
		return
	}

	var req dto.CreatePhotoshootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		dto.BadRequest(c, utils.FirstFieldError(err))
		return
	}

	res, err := h.svc.Create(ctx, req.ToInput(userID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCreatePhotoshootResponse(res))
}

// GetPhotoshoot 获取批次详情
// @Summary 获取拍摄批次
// @Tags Photoshoots
// @Produce json
// @Param id path string true "批次 ID"
// @Success 200 {object} dto.Response[dto.PhotoshootResponse]
// @Failure 404 {object} map[string]any
// @Router /photoshoots/{id} [get]
func (h *PhotoshootHandler) GetPhotoshoot(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		dto.BadRequest(c, "invalid photoshoot id")
		return
	}

	batch, err := h.svc.Get(c.Request.Context(), middleware.GetUserIDFromGin(c), uri.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, dto.ToPhotoshootResponse(batch))
}

// ListPhotoshoots 分页列出当前用户的批次
// @Summary 拍摄批次列表
// @Tags Photoshoots
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.PhotoshootResponse]
// @Router /photoshoots [get]
func (h *PhotoshootHandler) ListPhotoshoots(c *gin.Context) {
	pageReq := dto.BindPage(c)

	result, err := h.svc.List(c.Request.Context(), middleware.GetUserIDFromGin(c), pageReq.Pagination())
	if err != nil {
		writeError(c, err)
		return
	}

	meta := dto.NewPageMeta(result.Page, result.PageSize, result.Total)
	dto.SuccessWithPage(c, dto.ToPhotoshootResponses(result.Items), meta)
}

// writeError 领域错误统一映射为 AppError 响应，5xx 记录错误日志
func writeError(c *gin.Context, err error) {
	appErr := photoshoot.ToAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "photoshoot request failed", err, "code", string(appErr.Code))
	} else {
		logger.Warn(c.Request.Context(), "photoshoot request rejected", "code", string(appErr.Code), "error", err.Error())
	}
	dto.AppError(c, appErr)
}
