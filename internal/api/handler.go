package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/service"
	"github.com/yoyo3287258/title-translator/internal/translator"
)

var errEmptyTitle = errors.New("title must not be empty")

// Handler API处理器
type Handler struct {
	svc       *service.Service
	log       *mlog.Logger
	version   string
	startTime time.Time
}

// NewHandler 创建API处理器
func NewHandler(svc *service.Service, log *mlog.Logger, version string) *Handler {
	return &Handler{
		svc:       svc,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "up",
		"time":     time.Now(),
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"version":  h.version,
		"provider": h.svc.Translator().Name(),
	})
}

// Translate 翻译标题
// 请求体格式错误或标题为空时返回400，翻译失败返回500，两者都携带 FAILED 响应
func (h *Handler) Translate(c *gin.Context) {
	var req model.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("无效的翻译请求",
			mlog.String("trace_id", c.GetString(traceIDKey)),
			mlog.Err(err),
		)
		c.JSON(http.StatusBadRequest, model.Failed(req.WithDefaults(), fmt.Errorf("invalid request body: %w", err)))
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, model.Failed(req.WithDefaults(), errEmptyTitle))
		return
	}

	resp := h.svc.Translate(c.Request.Context(), service.SurfaceHTTP, req)
	if !resp.IsSuccessful() {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Models 返回翻译服务可用的模型列表（原样透传）
func (h *Handler) Models(c *gin.Context) {
	lister, ok := h.svc.Translator().(translator.ModelLister)
	if !ok {
		c.String(http.StatusInternalServerError, "Error fetching models: provider %s does not list models", h.svc.Translator().Name())
		return
	}

	body, err := lister.ListModels(c.Request.Context())
	if err != nil {
		h.log.Error("获取模型列表失败",
			mlog.String("trace_id", c.GetString(traceIDKey)),
			mlog.Err(err),
		)
		c.String(http.StatusInternalServerError, "Error fetching models: %s", err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
