package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/tmatias/planwise/backend/internal/config"
	"github.com/tmatias/planwise/backend/pkg/logger"
)

// Worker processes async notification tasks from the queue
type Worker struct {
	server            *asynq.Server
	mux               *asynq.ServeMux
	inviteProcessor   func(context.Context, *InviteNotification) error
	reminderProcessor func(context.Context, *DueReminder) error
	wg                sync.WaitGroup
	running           bool
	mu                sync.Mutex
}

// NewWorker creates a new worker instance
func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Infof("[Worker] Error processing task %s: %v", task.Type(), err)
			}),
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// SetInviteProcessor sets the function used to deliver invitations
func (w *Worker) SetInviteProcessor(p func(context.Context, *InviteNotification) error) {
	w.inviteProcessor = p
}

// SetReminderProcessor sets the function used to deliver reminders
func (w *Worker) SetReminderProcessor(p func(context.Context, *DueReminder) error) {
	w.reminderProcessor = p
}

// Start begins processing tasks
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeInviteNotification, w.handleInviteTask)
	w.mux.HandleFunc(TaskTypeDueReminder, w.handleReminderTask)

	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Infof("[Worker] Starting async worker...")
		if err := w.server.Run(w.mux); err != nil {
			logger.Infof("[Worker] Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	logger.Infof("[Worker] Shutting down...")
	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Infof("[Worker] Shutdown complete")
}

func (w *Worker) handleInviteTask(ctx context.Context, t *asynq.Task) error {
	var n InviteNotification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		logger.Infof("[Worker] Failed to unmarshal task: %v", err)
		return err
	}

	logger.Infof("[Worker] Processing invitation: project_id=%d, member_id=%d", n.ProjectID, n.MemberID)

	if w.inviteProcessor == nil {
		logger.Infof("[Worker] Warning: no invite processor set")
		return nil
	}

	return w.inviteProcessor(ctx, &n)
}

func (w *Worker) handleReminderTask(ctx context.Context, t *asynq.Task) error {
	var r DueReminder
	if err := json.Unmarshal(t.Payload(), &r); err != nil {
		logger.Infof("[Worker] Failed to unmarshal task: %v", err)
		return err
	}

	logger.Infof("[Worker] Processing reminder: task_id=%d, project_id=%d", r.TaskID, r.ProjectID)

	if w.reminderProcessor == nil {
		logger.Infof("[Worker] Warning: no reminder processor set")
		return nil
	}

	return w.reminderProcessor(ctx, &r)
}

// Global worker instance
var (
	globalWorker *Worker
	workerOnce   sync.Once
)

// InitWorker initializes the global worker
func InitWorker(cfg *config.RedisConfig) *Worker {
	workerOnce.Do(func() {
		globalWorker = NewWorker(cfg)
	})
	return globalWorker
}

// GetWorker returns the global worker instance
func GetWorker() *Worker {
	return globalWorker
}
