package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"badgr/internal/config"
	"badgr/internal/logger"
	"badgr/internal/models"
	"badgr/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the worker consumes from.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    MessageReader
	processor *processors.EventProcessor
	backoff   time.Duration
}

func New(cfg *config.Config, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return NewWithReader(cfg, logger, reader)
}

func NewWithReader(cfg *config.Config, logger *logger.Logger, reader MessageReader) *Worker {
	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processors.NewEventProcessor(logger),
		backoff:   time.Second,
	}
}

// Start consumes events until ctx is cancelled or the reader is closed.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for events on %s...", w.config.KafkaTopic)

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		// Parse event
		var event models.TrackEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		// Process event
		if err := w.processor.Process(event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) Stats() processors.Stats {
	return w.processor.Snapshot()
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	stats := w.processor.Snapshot()
	w.logger.Info("Processed %d events (%v)", stats.Total, stats.ByEvent)
	if err := w.reader.Close(); err != nil {
		w.logger.Error("Failed to close reader: %v", err)
	}
}
