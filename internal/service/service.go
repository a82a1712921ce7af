package service

import (
	"context"
	"time"

	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/metrics"
	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/translator"
)

// 请求来源
const (
	SurfaceHTTP   = "http"
	SurfaceKafka  = "kafka"
	SurfaceLambda = "lambda"
	SurfaceCLI    = "cli"
)

// Service 标题翻译服务
// 将翻译结果或错误统一映射为 TranslationResponse，不向外抛出错误
type Service struct {
	translator translator.Translator
	metrics    *metrics.Metrics
	log        *mlog.Logger
}

// New 创建翻译服务，metrics 可以为nil
func New(t translator.Translator, m *metrics.Metrics, log *mlog.Logger) *Service {
	return &Service{
		translator: t,
		metrics:    m,
		log:        log,
	}
}

// Translator 返回底层翻译实现
func (s *Service) Translator() translator.Translator {
	return s.translator
}

// Translate 翻译一个请求，返回 COMPLETED 或 FAILED 响应
func (s *Service) Translate(ctx context.Context, surface string, req model.TranslationRequest) model.TranslationResponse {
	req = req.WithDefaults()

	s.log.Info("收到翻译请求",
		mlog.String("surface", surface),
		mlog.String("document_id", req.DocumentID),
		mlog.String("source", req.SourceLanguage),
		mlog.String("target", req.TargetLanguage),
	)

	start := time.Now()
	translated, err := s.translator.Translate(ctx, req.Title, req.SourceLanguage, req.TargetLanguage)
	took := time.Since(start)

	var resp model.TranslationResponse
	if err != nil {
		s.log.Error("翻译失败",
			mlog.String("surface", surface),
			mlog.String("document_id", req.DocumentID),
			mlog.String("kind", translator.KindOf(err).String()),
			mlog.Err(err),
		)
		resp = model.Failed(req, err)
	} else {
		s.log.Debug("翻译完成",
			mlog.String("document_id", req.DocumentID),
			mlog.Duration("took", took),
		)
		resp = model.Completed(req, translated)
	}

	if s.metrics != nil {
		s.metrics.ObserveTranslation(surface, s.translator.Name(), string(resp.Status), took)
	}

	return resp
}
