package deps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/middleware"
	"github.com/Alwanly/service-config-client/pkg/pubsub"
)

type App struct {
	Fiber      *fiber.App
	Logger     *logger.CanonicalLogger
	Database   *gorm.DB
	Middleware *middleware.AuthMiddleware
	Pub        pubsub.PubSub
}
