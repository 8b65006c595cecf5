package service

import (
	"context"
	"encoding/json"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/logger"

	"gorm.io/datatypes"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// AuditService records and queries the append-only auto-sell trail. A
// failed write is a reliability concern, not a user-facing error, so Record
// never returns one.
type AuditService interface {
	Record(ctx context.Context, entry *entity.AutoSellLog)
	GetLogs(ctx context.Context, userID uint, limit int) ([]entity.AutoSellLog, error)
	GetOrderTrail(ctx context.Context, orderID string) ([]entity.AutoSellLog, error)
}

// NewAuditService creates a new audit service.
func NewAuditService(logRepo repository.AutoSellLogRepository, logger *logger.Logger) AuditService {
	return &auditService{
		logRepo: logRepo,
		logger:  logger,
	}
}

type auditService struct {
	logRepo repository.AutoSellLogRepository
	logger  *logger.Logger
}

// Record appends one audit entry.
func (s *auditService) Record(ctx context.Context, entry *entity.AutoSellLog) {
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append audit log",
			logger.ErrorField(err),
			logger.StringField("order_id", entry.OrderID),
			logger.StringField("action", entry.Action))
	}
}

// GetLogs returns the newest entries for a user, most recent first.
func (s *auditService) GetLogs(ctx context.Context, userID uint, limit int) ([]entity.AutoSellLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := s.logRepo.FindByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to query audit logs", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}
	return logs, nil
}

// GetOrderTrail returns every entry for one order in creation order.
func (s *auditService) GetOrderTrail(ctx context.Context, orderID string) ([]entity.AutoSellLog, error) {
	logs, err := s.logRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to query order trail", logger.ErrorField(err), logger.StringField("order_id", orderID))
		return nil, err
	}
	return logs, nil
}

// AuditDetails marshals transition specifics for the Details column.
// Marshal failures degrade to an empty payload rather than losing the entry.
func AuditDetails(fields map[string]interface{}) datatypes.JSON {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
