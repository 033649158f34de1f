package services

import (
	"errors"
	"testing"

	"github.com/tmatias/planwise/backend/internal/models"
)

func TestTaskAdd_PendingState(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))
	task, err := svc.Add(project.ID, &AddTaskRequest{Description: "Write docs", Priority: models.PriorityMedium}, owner.ID)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if task.Status != models.TaskStatusPending {
		t.Errorf("new task status = %q, expected PENDING", task.Status)
	}
}

func TestTaskAdd_ProjectCheckedFirst(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")

	svc := NewTaskService(db, NewMembershipService(db))
	_, err := svc.Add(999, &AddTaskRequest{Description: "Ghost", Priority: models.PriorityLow}, owner.ID)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestTaskAdd_MemberForbidden(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, member.ID, models.RoleMember)

	svc := NewTaskService(db, NewMembershipService(db))
	_, err := svc.Add(project.ID, &AddTaskRequest{Description: "Nope", Priority: models.PriorityLow}, member.ID)
	if !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("expected ErrInsufficientPermissions, got %v", err)
	}
}

func TestTaskStart_OnlyFromPending(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))
	task, err := svc.Add(project.ID, &AddTaskRequest{Description: "Build", Priority: models.PriorityHigh}, owner.ID)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := svc.Start(project.ID, task.ID, owner.ID); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	var got models.Task
	db.First(&got, task.ID)
	if got.Status != models.TaskStatusActive {
		t.Errorf("status = %q, expected ACTIVE", got.Status)
	}
	if got.StartedAt == nil {
		t.Error("started_at should be set")
	}

	// Second start must fail: the task already left PENDING
	if err := svc.Start(project.ID, task.ID, owner.ID); !errors.Is(err, ErrTaskNotStartable) {
		t.Errorf("second start: expected ErrTaskNotStartable, got %v", err)
	}
}

func TestTaskStart_MemberAllowed(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, member.ID, models.RoleMember)

	svc := NewTaskService(db, NewMembershipService(db))
	task, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Build", Priority: models.PriorityLow}, owner.ID)

	if err := svc.Start(project.ID, task.ID, member.ID); err != nil {
		t.Errorf("member should be able to start a task, got %v", err)
	}
}

func TestTaskComplete_FromPendingOrActive(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))

	// PENDING -> COMPLETED directly
	t1, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Quick fix", Priority: models.PriorityLow}, owner.ID)
	if err := svc.Complete(project.ID, t1.ID, owner.ID); err != nil {
		t.Errorf("complete from PENDING should succeed, got %v", err)
	}

	// ACTIVE -> COMPLETED
	t2, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Longer fix", Priority: models.PriorityLow}, owner.ID)
	if err := svc.Start(project.ID, t2.ID, owner.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := svc.Complete(project.ID, t2.ID, owner.ID); err != nil {
		t.Errorf("complete from ACTIVE should succeed, got %v", err)
	}

	var got models.Task
	db.First(&got, t2.ID)
	if got.CompletedAt == nil {
		t.Error("completed_at should be set")
	}
}

func TestTaskComplete_Twice(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))
	task, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Once", Priority: models.PriorityLow}, owner.ID)

	if err := svc.Complete(project.ID, task.ID, owner.ID); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if err := svc.Complete(project.ID, task.ID, owner.ID); !errors.Is(err, ErrTaskAlreadyCompleted) {
		t.Errorf("second complete: expected ErrTaskAlreadyCompleted, got %v", err)
	}
}

func TestTaskStart_CompletedTask(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))
	task, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Done", Priority: models.PriorityLow}, owner.ID)
	if err := svc.Complete(project.ID, task.ID, owner.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if err := svc.Start(project.ID, task.ID, owner.ID); !errors.Is(err, ErrTaskNotStartable) {
		t.Errorf("starting a completed task: expected ErrTaskNotStartable, got %v", err)
	}
}

func TestTaskList_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewTaskService(db, NewMembershipService(db))
	t1, _ := svc.Add(project.ID, &AddTaskRequest{Description: "First", Priority: models.PriorityLow}, owner.ID)
	svc.Add(project.ID, &AddTaskRequest{Description: "Second", Priority: models.PriorityLow}, owner.ID)
	svc.Complete(project.ID, t1.ID, owner.ID)

	all, err := svc.List(project.ID, "", owner.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(all))
	}

	completed, err := svc.List(project.ID, models.TaskStatusCompleted, owner.ID)
	if err != nil {
		t.Fatalf("filtered List failed: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("expected 1 completed task, got %d", len(completed))
	}
}

func TestTaskDelete_OwnerOrAdminOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, member.ID, models.RoleMember)

	svc := NewTaskService(db, NewMembershipService(db))
	task, _ := svc.Add(project.ID, &AddTaskRequest{Description: "Target", Priority: models.PriorityLow}, owner.ID)

	if err := svc.Delete(project.ID, task.ID, member.ID); !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("member delete: expected ErrInsufficientPermissions, got %v", err)
	}
	if err := svc.Delete(project.ID, task.ID, owner.ID); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}
