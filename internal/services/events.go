package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
)

// publishEvent publishes a lifecycle event best-effort: a nil writer or
// a broker failure never fails the surrounding request.
func publishEvent(ctx context.Context, writer KafkaWriter, event models.Event) {
	if writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", event.Type, "entity_id", event.EntityID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "type", event.Type, "entity_id", event.EntityID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Type + ":" + strconv.FormatInt(event.EntityID, 10)),
		Value: data,
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "type", event.Type, "entity_id", event.EntityID, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "type", event.Type, "entity_id", event.EntityID)
	}
}
