package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tmatias/planwise/backend/internal/models"
	"github.com/tmatias/planwise/backend/pkg/logger"
	"gorm.io/gorm"
)

// ReminderService sends due-date reminders for tasks approaching their
// deadline. A daily cron job scans active projects and notifies their
// members, skipping weekends and public holidays.
type ReminderService struct {
	db             *gorm.DB
	calendar       *WorkCalendarService
	queue          NotifyQueue
	cronScheduler  *cron.Cron
	currentEntryID cron.EntryID
}

func NewReminderService(db *gorm.DB, calendar *WorkCalendarService, queue NotifyQueue) *ReminderService {
	return &ReminderService{
		db:       db,
		calendar: calendar,
		queue:    queue,
	}
}

func (s *ReminderService) StartScheduler() {
	s.cronScheduler = cron.New()

	s.updateSchedule()

	s.cronScheduler.Start()
	logger.Infof("[Reminder] Scheduler started")
}

func (s *ReminderService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *ReminderService) updateSchedule() {
	if s.currentEntryID != 0 {
		s.cronScheduler.Remove(s.currentEntryID)
	}

	reminderTime := s.getReminderTime()
	parts := strings.Split(reminderTime, ":")
	hour := "9"
	minute := "0"
	if len(parts) == 2 {
		hour = parts[0]
		minute = parts[1]
	}

	cronExpr := fmt.Sprintf("%s %s * * *", minute, hour)

	entryID, err := s.cronScheduler.AddFunc(cronExpr, func() {
		s.RunReminders()
	})
	if err != nil {
		logger.Infof("[Reminder] Failed to add cron job: %v", err)
		return
	}

	s.currentEntryID = entryID
	logger.Infof("[Reminder] Scheduled at %s (cron: %s)", reminderTime, cronExpr)
}

func (s *ReminderService) getReminderTime() string {
	var config models.SystemConfig
	if err := s.db.Where("`key` = ?", "reminder_time").First(&config).Error; err != nil {
		return "09:00"
	}
	return config.Value
}

func (s *ReminderService) isEnabled() bool {
	var config models.SystemConfig
	if err := s.db.Where("`key` = ?", "reminder_enabled").First(&config).Error; err != nil {
		return false
	}
	return config.Value == "true"
}

func (s *ReminderService) getCountry() string {
	var config models.SystemConfig
	if err := s.db.Where("`key` = ?", "reminder_country").First(&config).Error; err != nil {
		return "NONE"
	}
	return config.Value
}

// truncateSummary shortens a description to at most max runes, so a
// multi-byte description is never cut mid-rune.
func truncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// RunReminders scans for unfinished tasks due within the next 24 hours
// and enqueues a reminder to every active member of the task's project.
func (s *ReminderService) RunReminders() error {
	if !s.isEnabled() {
		return nil
	}

	now := time.Now()
	if !s.calendar.IsWorkday(now, s.getCountry()) {
		logger.Infof("[Reminder] Skipping reminders, not a workday")
		return nil
	}

	cutoff := now.Add(24 * time.Hour)

	var tasks []models.Task
	err := s.db.
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.status = ?", models.ProjectStatusActive).
		Where("projects.deleted_at IS NULL").
		Where("tasks.status IN ?", []string{models.TaskStatusPending, models.TaskStatusActive}).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date BETWEEN ? AND ?", now, cutoff).
		Find(&tasks).Error
	if err != nil {
		logger.Infof("[Reminder] Failed to scan due tasks: %v", err)
		return err
	}

	if len(tasks) == 0 {
		return nil
	}

	sent := 0
	for _, task := range tasks {
		var project models.Project
		if err := s.db.First(&project, task.ProjectID).Error; err != nil {
			continue
		}

		var members []models.ProjectMember
		if err := s.db.Preload("User").
			Where("project_id = ? AND status = ?", task.ProjectID, models.MemberStatusActive).
			Find(&members).Error; err != nil {
			continue
		}

		for _, member := range members {
			if member.User == nil || member.User.Email == "" {
				continue
			}

			summary := truncateSummary(task.Description, 80)

			reminder := &DueReminder{
				TaskID:      task.ID,
				TaskSummary: summary,
				ProjectID:   project.ID,
				ProjectName: project.Name,
				Email:       member.User.Email,
				DueDate:     task.DueDate.Format("2006-01-02 15:04"),
			}
			if err := s.queue.EnqueueReminder(reminder); err != nil {
				logger.Infof("[Reminder] Failed to enqueue reminder for task %d: %v", task.ID, err)
				continue
			}
			sent++
		}
	}

	logger.Infof("[Reminder] Enqueued %d reminders for %d due tasks", sent, len(tasks))
	return nil
}
