package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/dkochetov/imgset/internal/model"
)

type service interface {
	ProcessTask(ctx context.Context, task model.Task) error
}

// CreatedHandler consumes batch-created messages and triggers processing.
type CreatedHandler struct {
	service service
}

func NewCreatedHandler(s service) *CreatedHandler {
	return &CreatedHandler{service: s}
}

func (h *CreatedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var task model.Task
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return fmt.Errorf("unmarshal task: %w", err)
	}

	if err := h.service.ProcessTask(ctx, task); err != nil {
		return fmt.Errorf("process task: %w", err)
	}

	return nil
}
