package services

import (
	"context"
	"fmt"
	"log/slog"

	"recibos/internal/amqp"
	"recibos/internal/core"
	"recibos/internal/storage"
)

// ReceiptService orchestrates receipt persistence and export notification.
type ReceiptService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewReceiptService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ReceiptService {
	return &ReceiptService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateReceipt saves a receipt locally and, when it is issued, publishes an
// export message. A publish failure does not fail the call; the receipt is
// already durable and the export worker's periodic sweep picks it up later.
func (s *ReceiptService) CreateReceipt(ctx context.Context, r core.Receipt) (int64, error) {
	id, err := s.storage.CreateReceipt(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("save receipt: %w", err)
	}

	if r.Status == core.StatusIssued {
		if err := s.publishIssued(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish receipt issued message",
				"id", id, "error", err)
		}
	}

	return id, nil
}

func (s *ReceiptService) publishIssued(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping export message", "id", id)
		return nil
	}
	return s.amqpClient.PublishReceiptIssued(ctx, id, 1)
}

// Close closes both storage and AMQP connections
func (s *ReceiptService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close receipt service: %v", errs)
	}

	return nil
}
