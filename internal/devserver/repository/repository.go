package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Alwanly/service-config-client/internal/models"
	"github.com/Alwanly/service-config-client/pkg/pubsub"
)

type Repository struct {
	DB  *gorm.DB
	Pub pubsub.Publisher
}

func NewRepository(db *gorm.DB, publisher pubsub.Publisher) *Repository {
	return &Repository{DB: db, Pub: publisher}
}

type IRepository interface {
	Current(ctx context.Context) (*models.ConfigurationDocument, error)
	Update(ctx context.Context, document any) (*models.ConfigurationDocument, error)
	PublishUpdate(etag string) error
}

// Current returns the latest stored document, or nil when none exists yet.
func (r *Repository) Current(ctx context.Context) (*models.ConfigurationDocument, error) {
	var doc models.ConfigurationDocument
	err := r.DB.WithContext(ctx).Order("id DESC").First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &doc, nil
}

// Update stores a new configuration document with a fresh ETag.
func (r *Repository) Update(ctx context.Context, document any) (*models.ConfigurationDocument, error) {
	payload, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	doc := &models.ConfigurationDocument{
		ETag:     uuid.Must(uuid.NewV7()).String(),
		Document: string(payload),
	}
	if err := r.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to store configuration: %w", err)
	}
	return doc, nil
}

// PublishUpdate broadcasts the new ETag so watchers can refresh immediately
// instead of waiting for their next poll. A nil publisher is a no-op.
func (r *Repository) PublishUpdate(etag string) error {
	if r.Pub == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Pub.Publish(ctx, pubsub.ConfigUpdatesChannel, etag); err != nil {
		return fmt.Errorf("failed to publish config update: %w", err)
	}
	return nil
}
