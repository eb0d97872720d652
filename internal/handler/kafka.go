package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Ayush3323/printingbackend/internal/config"
	"github.com/Ayush3323/printingbackend/internal/logger"
	"github.com/Ayush3323/printingbackend/internal/order"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RenderEvent is the message the render pipeline publishes whenever an
// order item's render progresses.
type RenderEvent struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	Status       string `json:"status" validate:"required,oneof=pending processing completed failed"`
	PrintFileURL string `json:"print_file_url" validate:"omitempty,url"`
}

type RenderUpdater interface {
	ApplyRenderUpdate(ctx context.Context, itemID uuid.UUID, status order.RenderStatus, printFileURL string) error
}

// KafkaHandler consumes render-status events and applies them to order
// items. Messages that fail to apply go to the "<topic>-dlq" topic so a
// bad event never blocks the partition.
type KafkaHandler struct {
	reader   *kafka.Reader
	dlq      *kafka.Writer
	validate *validator.Validate
	updater  RenderUpdater
}

func NewKafkaHandler(cfg *config.Config, updater RenderUpdater) *KafkaHandler {
	return &KafkaHandler{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
			Topic:   cfg.KafkaRenderTopic,
		}),
		dlq: &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Balancer: &kafka.LeastBytes{},
		},
		validate: validator.New(),
		updater:  updater,
	}
}

func (h *KafkaHandler) Consume(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("handler", "kafka"))

	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}
			log.Error("failed to fetch message", zap.Error(err))
			continue
		}

		if err := h.handleRenderEvent(ctx, m); err != nil {
			renderEventsFailed.Inc()
			log.Error("failed to handle render event", zap.Error(err))

			if err := h.writeToDLQ(ctx, m); err != nil {
				log.Error("failed to write message to DLQ", zap.Error(err))
				continue
			}
			renderEventsDLQ.Inc()
		} else {
			renderEventsProcessed.Inc()
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			log.Error("failed to commit message", zap.Error(err))
		}
	}
}

func (h *KafkaHandler) handleRenderEvent(ctx context.Context, m kafka.Message) error {
	var event RenderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal render event: %w", err)
	}

	if err := h.validate.Struct(event); err != nil {
		return fmt.Errorf("invalid render event: %w", err)
	}

	itemID, err := uuid.Parse(event.ItemID)
	if err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}

	err = h.updater.ApplyRenderUpdate(ctx, itemID, order.RenderStatus(event.Status), event.PrintFileURL)
	if err != nil && !errors.Is(err, order.ErrItemNotFound) {
		return err
	}
	return nil
}

func (h *KafkaHandler) writeToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *KafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
