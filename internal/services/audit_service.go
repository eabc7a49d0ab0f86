package services

import (
	"encoding/json"

	"go.uber.org/zap"

	"finboard/internal/logger"
)

// Audit actions.
const (
	AuditCreate   = "create"
	AuditUpdate   = "update"
	AuditDelete   = "delete"
	AuditSettings = "settings"
	AuditImport   = "import"
)

// auditService records mutations as structured log entries.
type auditService struct {
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService() AuditServicer {
	return &auditService{log: logger.Named("audit")}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(action, resourceType, resourceID string, changes map[string]any) {
	changesJSON := "{}"
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			s.log.Errorw("failed to marshal audit log changes", "error", err, "action", action)
		} else {
			changesJSON = string(data)
		}
	}

	s.log.Infow("audit",
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"changes", changesJSON,
	)
}
