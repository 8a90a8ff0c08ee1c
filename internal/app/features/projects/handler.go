// internal/app/features/projects/handler.go
package projects

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auditlog"
)

// Handler is the feature-level handler for Projects. It holds the stores
// and logger provided by Startup.
type Handler struct {
	Log      *zap.Logger
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Audit    *auditlog.Logger // nil disables audit logging
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Projects: projectstore.New(db),
		Tasks:    taskstore.New(db),
		Users:    userstore.New(db),
	}
}
