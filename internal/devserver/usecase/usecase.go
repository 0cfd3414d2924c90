package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Alwanly/service-config-client/internal/devserver/dto"
	"github.com/Alwanly/service-config-client/internal/devserver/repository"
	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/wrapper"
)

type UseCase struct {
	Repo   repository.IRepository
	Logger *logger.CanonicalLogger
}

type IUseCase interface {
	GetConfiguration(ctx context.Context, etag string) (wrapper.JSONResult, string)
	SetConfiguration(ctx context.Context, req *dto.SetConfigRequest) wrapper.JSONResult
}

func NewUseCase(uc UseCase) *UseCase {
	return &uc
}

// GetConfiguration returns the current document plus its ETag. When the
// caller's If-None-Match ETag still matches, it signals 304 with no body.
func (uc *UseCase) GetConfiguration(ctx context.Context, etag string) (wrapper.JSONResult, string) {
	doc, err := uc.Repo.Current(ctx)
	if err != nil {
		uc.Logger.WithError(err).Error("failed to load configuration")
		return wrapper.ResponseFailed(http.StatusInternalServerError, "failed to load configuration", nil), ""
	}

	if doc == nil {
		return wrapper.ResponseFailed(http.StatusNotFound, "no configuration available", nil), ""
	}

	if etag != "" && etag == doc.ETag {
		return wrapper.JSONResult{Code: http.StatusNotModified}, doc.ETag
	}

	var document any
	if err := json.Unmarshal([]byte(doc.Document), &document); err != nil {
		uc.Logger.WithError(err).Error("stored configuration is not valid JSON",
			zap.String(logger.FieldETag, doc.ETag),
		)
		return wrapper.ResponseFailed(http.StatusInternalServerError, "corrupt configuration document", nil), ""
	}

	return wrapper.JSONResult{Code: http.StatusOK, Success: true, Data: document}, doc.ETag
}

// SetConfiguration replaces the served document and notifies subscribers.
func (uc *UseCase) SetConfiguration(ctx context.Context, req *dto.SetConfigRequest) wrapper.JSONResult {
	doc, err := uc.Repo.Update(ctx, req.Configuration)
	if err != nil {
		uc.Logger.WithError(err).Error("failed to store configuration")
		return wrapper.ResponseFailed(http.StatusInternalServerError, "failed to store configuration", nil)
	}

	if err := uc.Repo.PublishUpdate(doc.ETag); err != nil {
		// watchers still pick the change up on their next poll
		uc.Logger.WithError(err).Warn("failed to publish configuration update",
			zap.String(logger.FieldETag, doc.ETag),
		)
	}

	logger.AddToContext(ctx, zap.String(logger.FieldETag, doc.ETag))

	return wrapper.ResponseSuccess(http.StatusOK, dto.SetConfigResponse{ETag: doc.ETag})
}
