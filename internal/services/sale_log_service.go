package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"github.com/sirupsen/logrus"
)

// SaleLogStore persists and prunes sale log entries
type SaleLogStore interface {
	Create(ctx context.Context, log *models.CampaignSaleLog) error
	GetByCampaign(ctx context.Context, campaignID uint, page, pageSize int) ([]models.CampaignSaleLog, int64, error)
	DeleteOldLogs(ctx context.Context, days int) (int64, error)
}

// SaleLogService turns offer_consumed events into campaign_sale_logs rows
type SaleLogService struct {
	logRepo         SaleLogStore
	rabbitMQ        *RabbitMQService
	stopChan        chan bool
	cleanupStopChan chan bool
}

func NewSaleLogService(logRepo SaleLogStore, rabbitMQ *RabbitMQService) *SaleLogService {
	return &SaleLogService{
		logRepo:         logRepo,
		rabbitMQ:        rabbitMQ,
		stopChan:        make(chan bool),
		cleanupStopChan: make(chan bool),
	}
}

// StartRabbitMQConsumer starts consuming sale events from the queue
func (s *SaleLogService) StartRabbitMQConsumer(queueName string) error {
	if err := s.rabbitMQ.DeclareQueue(queueName); err != nil {
		return err
	}

	// Consume messages
	msgs, err := s.rabbitMQ.GetChannel().Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logrus.Infof("RabbitMQ consumer started for %s queue", queueName)

	go func() {
		for {
			select {
			case <-s.stopChan:
				logrus.Info("RabbitMQ consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					logrus.Warn("RabbitMQ channel closed")
					return
				}

				if err := s.processMessage(context.Background(), msg.Body); err != nil {
					logrus.Errorf("Failed to process sale event: %v", err)
					// Malformed events are dropped; storage failures are retried
					_ = msg.Nack(false, !isMalformed(err))
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

// StopRabbitMQConsumer stops the consumer
func (s *SaleLogService) StopRabbitMQConsumer() {
	close(s.stopChan)
}

type malformedEventError struct {
	err error
}

func (e *malformedEventError) Error() string { return e.err.Error() }

func isMalformed(err error) bool {
	var malformed *malformedEventError
	return errors.As(err, &malformed)
}

// processMessage stores one offer_consumed event
func (s *SaleLogService) processMessage(ctx context.Context, body []byte) error {
	var event models.OfferConsumedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return &malformedEventError{fmt.Errorf("failed to unmarshal sale event: %w", err)}
	}
	if event.Type != models.EventOfferConsumed {
		logrus.Warnf("Skipping event of unknown type %q", event.Type)
		return nil
	}
	if event.CampaignProductID == 0 || event.Quantity < 1 {
		return &malformedEventError{fmt.Errorf("invalid sale event: campaign_product_id=%d quantity=%d", event.CampaignProductID, event.Quantity)}
	}

	consumedAt := event.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = time.Now().UTC()
	}
	log := &models.CampaignSaleLog{
		CampaignID:        event.CampaignID,
		CampaignProductID: event.CampaignProductID,
		ProductID:         event.ProductID,
		Quantity:          event.Quantity,
		ConsumedBy:        event.ConsumedBy,
		ConsumedAt:        consumedAt,
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to save sale log to database: %w", err)
	}
	return nil
}

// ListByCampaign returns a page of a campaign's sale log
func (s *SaleLogService) ListByCampaign(ctx context.Context, campaignID uint, page, pageSize int) ([]models.CampaignSaleLog, int64, error) {
	return s.logRepo.GetByCampaign(ctx, campaignID, page, pageSize)
}

// StartLogCleanup starts a background goroutine to periodically clean up old logs
func (s *SaleLogService) StartLogCleanup(interval time.Duration, retentionDays int) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Run initial cleanup
		s.cleanupOldLogs(retentionDays)

		for {
			select {
			case <-ticker.C:
				s.cleanupOldLogs(retentionDays)
			case <-s.cleanupStopChan:
				return
			}
		}
	}()
	logrus.Infof("Sale log cleanup service started (interval: %v, retention: %d days)", interval, retentionDays)
}

// StopLogCleanup stops the log cleanup service
func (s *SaleLogService) StopLogCleanup() {
	close(s.cleanupStopChan)
}

func (s *SaleLogService) cleanupOldLogs(retentionDays int) {
	deleted, err := s.logRepo.DeleteOldLogs(context.Background(), retentionDays)
	if err != nil {
		logrus.Errorf("Failed to cleanup old sale logs: %v", err)
		return
	}
	if deleted > 0 {
		logrus.Infof("Deleted %d sale log entries older than %d days", deleted, retentionDays)
	}
}
