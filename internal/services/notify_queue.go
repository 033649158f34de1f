package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/tmatias/planwise/backend/internal/config"
	"github.com/tmatias/planwise/backend/pkg/logger"
)

const (
	TaskTypeInviteNotification = "notify:invitation"
	TaskTypeDueReminder        = "notify:due_reminder"
)

// InviteNotification is the payload for a membership invitation email.
type InviteNotification struct {
	ProjectID   uint   `json:"project_id"`
	ProjectName string `json:"project_name"`
	MemberID    uint   `json:"member_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	InvitedBy   uint   `json:"invited_by"`
}

// DueReminder is the payload for a task due-date reminder email.
type DueReminder struct {
	TaskID      uint   `json:"task_id"`
	TaskSummary string `json:"task_summary"`
	ProjectID   uint   `json:"project_id"`
	ProjectName string `json:"project_name"`
	Email       string `json:"email"`
	DueDate     string `json:"due_date"`
}

// NotifyQueue defines the interface for notification delivery.
type NotifyQueue interface {
	// EnqueueInvite adds an invitation notification to the queue
	EnqueueInvite(n *InviteNotification) error
	// EnqueueReminder adds a due-date reminder to the queue
	EnqueueReminder(r *DueReminder) error
	// IsAsync returns true if the queue delivers asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// Global notify queue instance
var (
	globalNotifyQueue NotifyQueue
	notifyQueueOnce   sync.Once
)

// InitNotifyQueue initializes the global notify queue based on config
func InitNotifyQueue(cfg *config.Config) NotifyQueue {
	notifyQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Infof("[NotifyQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalNotifyQueue = NewSyncQueue()
			} else {
				logger.Infof("[NotifyQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalNotifyQueue = queue
			}
		} else {
			logger.Infof("[NotifyQueue] Sync queue initialized (Redis disabled)")
			globalNotifyQueue = NewSyncQueue()
		}
	})
	return globalNotifyQueue
}

// GetNotifyQueue returns the global notify queue instance
func GetNotifyQueue() NotifyQueue {
	return globalNotifyQueue
}

// AsyncQueue implements NotifyQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Test connection by pinging Redis
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	_, err := inspector.Queues()
	if err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) enqueue(taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	t := asynq.NewTask(taskType, data)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Task enqueued: id=%s, type=%s", info.ID, taskType)
	return nil
}

func (q *AsyncQueue) EnqueueInvite(n *InviteNotification) error {
	return q.enqueue(TaskTypeInviteNotification, n)
}

func (q *AsyncQueue) EnqueueReminder(r *DueReminder) error {
	return q.enqueue(TaskTypeDueReminder, r)
}

// IsAsync returns true for async queue
func (q *AsyncQueue) IsAsync() bool {
	return true
}

// Close closes the async queue client
func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements NotifyQueue with in-process delivery (no Redis)
type SyncQueue struct {
	inviteProcessor   func(context.Context, *InviteNotification) error
	reminderProcessor func(context.Context, *DueReminder) error
}

// NewSyncQueue creates a new synchronous queue
func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetInviteProcessor sets the function used to deliver invitations in-process
func (q *SyncQueue) SetInviteProcessor(p func(context.Context, *InviteNotification) error) {
	q.inviteProcessor = p
}

// SetReminderProcessor sets the function used to deliver reminders in-process
func (q *SyncQueue) SetReminderProcessor(p func(context.Context, *DueReminder) error) {
	q.reminderProcessor = p
}

// EnqueueInvite delivers the notification in a background goroutine
func (q *SyncQueue) EnqueueInvite(n *InviteNotification) error {
	if q.inviteProcessor == nil {
		logger.Infof("[SyncQueue] Warning: no invite processor set, notification dropped")
		return nil
	}

	// Deliver in a goroutine to not block the request
	go func() {
		if err := q.inviteProcessor(context.Background(), n); err != nil {
			logger.Infof("[SyncQueue] Invitation delivery failed: %v", err)
		}
	}()

	return nil
}

// EnqueueReminder delivers the reminder in a background goroutine
func (q *SyncQueue) EnqueueReminder(r *DueReminder) error {
	if q.reminderProcessor == nil {
		logger.Infof("[SyncQueue] Warning: no reminder processor set, notification dropped")
		return nil
	}

	go func() {
		if err := q.reminderProcessor(context.Background(), r); err != nil {
			logger.Infof("[SyncQueue] Reminder delivery failed: %v", err)
		}
	}()

	return nil
}

// IsAsync returns false for sync queue
func (q *SyncQueue) IsAsync() bool {
	return false
}

// Close is a no-op for sync queue
func (q *SyncQueue) Close() error {
	return nil
}
