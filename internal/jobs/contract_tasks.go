package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/services"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingContract = "booking:contract"

const (
	contractMaxRetry = 5
	contractTimeout  = 2 * time.Minute
)

// ContractPayload identifies the booking whose contract should be rendered
type ContractPayload struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	BookingID uuid.UUID `json:"booking_id"`
}

// NewContractTask creates a contract generation task
func NewContractTask(tenantID, bookingID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(ContractPayload{TenantID: tenantID, BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingContract, data, asynq.MaxRetry(contractMaxRetry), asynq.Timeout(contractTimeout)), nil
}

// TaskEnqueuer is the part of *asynq.Client used to submit tasks
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ContractQueue submits contract generation to asynq
type ContractQueue struct {
	client TaskEnqueuer
	log    *zap.Logger
}

var _ services.ContractEnqueuer = (*ContractQueue)(nil)

func NewContractQueue(client TaskEnqueuer, log *zap.Logger) *ContractQueue {
	return &ContractQueue{client: client, log: log.Named("contract_queue")}
}

func (q *ContractQueue) EnqueueContract(ctx context.Context, tenantID, bookingID uuid.UUID) error {
	task, err := NewContractTask(tenantID, bookingID)
	if err != nil {
		return fmt.Errorf("failed to build contract task: %w", err)
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	q.log.Info("contract generation queued",
		zap.String("task_id", info.ID),
		zap.String("tenant_id", tenantID.String()),
		zap.String("booking_id", bookingID.String()))
	return nil
}

// ContractWorker renders contracts for queued tasks
type ContractWorker struct {
	contracts services.ContractService
	log       *zap.Logger
}

func NewContractWorker(contracts services.ContractService, log *zap.Logger) *ContractWorker {
	return &ContractWorker{contracts: contracts, log: log.Named("contract_worker")}
}

// HandleContractTask handles booking:contract tasks. Bookings that no longer exist or
// were cancelled in the meantime are dropped without retrying.
func (w *ContractWorker) HandleContractTask(ctx context.Context, t *asynq.Task) error {
	var payload ContractPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal contract payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.TenantID == uuid.Nil || payload.BookingID == uuid.Nil {
		return fmt.Errorf("contract payload is missing ids: %w", asynq.SkipRetry)
	}

	fields := []zap.Field{
		zap.String("tenant_id", payload.TenantID.String()),
		zap.String("booking_id", payload.BookingID.String()),
	}

	key, err := w.contracts.Generate(ctx, payload.TenantID, payload.BookingID)
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrInvalidTransition):
		w.log.Warn("contract generation dropped", append(fields, zap.Error(err))...)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	case err != nil:
		w.log.Error("contract generation failed", append(fields, zap.Error(err))...)
		return err
	}

	w.log.Info("contract generated", append(fields, zap.String("object", key))...)
	return nil
}

// NewServeMux routes every task type this service processes
func NewServeMux(worker *ContractWorker) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingContract, worker.HandleContractTask)
	return mux
}
