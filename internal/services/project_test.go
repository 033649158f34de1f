package services

import (
	"errors"
	"testing"

	"github.com/tmatias/planwise/backend/internal/models"
)

func TestProjectCreate_InactiveWithOwnerMember(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")

	svc := NewProjectService(db, NewMembershipService(db))
	project, err := svc.Create(&CreateProjectRequest{Name: "Apollo", Description: "Moonshot"}, owner.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if project.Status != models.ProjectStatusInactive {
		t.Errorf("new project status = %q, expected %q", project.Status, models.ProjectStatusInactive)
	}

	var members []models.ProjectMember
	db.Where("project_id = ?", project.ID).Find(&members)
	if len(members) != 1 {
		t.Fatalf("expected exactly one member row, got %d", len(members))
	}
	m := members[0]
	if m.Role != models.RoleOwner {
		t.Errorf("owner member role = %q, expected OWNER", m.Role)
	}
	if m.Status != models.MemberStatusActive {
		t.Errorf("owner member status = %q, expected ACTIVE", m.Status)
	}
	if m.JoinedAt == nil {
		t.Error("owner member should have joined_at set")
	}
}

func TestProjectCreate_UnknownOwner(t *testing.T) {
	db := newTestDB(t)

	svc := NewProjectService(db, NewMembershipService(db))
	_, err := svc.Create(&CreateProjectRequest{Name: "Orphan"}, 999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProjectStart_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	admin := seedUser(t, db, "admin@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, admin.ID, models.RoleAdmin)

	svc := NewProjectService(db, NewMembershipService(db))

	if _, err := svc.Start(project.ID, admin.ID); !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("admin start: expected ErrInsufficientPermissions, got %v", err)
	}

	started, err := svc.Start(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner start failed: %v", err)
	}
	if started.Status != models.ProjectStatusActive {
		t.Errorf("status = %q, expected ACTIVE", started.Status)
	}
	if started.StartedAt == nil {
		t.Error("started_at should be set")
	}
}

func TestProjectStart_AlreadyActive(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewProjectService(db, NewMembershipService(db))

	if _, err := svc.Start(project.ID, owner.ID); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if _, err := svc.Start(project.ID, owner.ID); !errors.Is(err, ErrProjectAlreadyActive) {
		t.Errorf("second start: expected ErrProjectAlreadyActive, got %v", err)
	}
}

func TestProjectStart_NotFound(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")

	svc := NewProjectService(db, NewMembershipService(db))
	if _, err := svc.Start(12345, owner.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectUpdate_Partial(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewProjectService(db, NewMembershipService(db))

	name := "Renamed"
	if _, err := svc.Update(project.ID, &UpdateProjectRequest{Name: &name}, owner.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var got models.Project
	db.First(&got, project.ID)
	if got.Name != "Renamed" {
		t.Errorf("name = %q, expected %q", got.Name, "Renamed")
	}
	// Omitted field untouched
	if got.Description != project.Description {
		t.Errorf("description changed unexpectedly: %q", got.Description)
	}
}

func TestProjectUpdate_MemberForbidden(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, member.ID, models.RoleMember)

	svc := NewProjectService(db, NewMembershipService(db))

	name := "Hijacked"
	if _, err := svc.Update(project.ID, &UpdateProjectRequest{Name: &name}, member.ID); !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("expected ErrInsufficientPermissions, got %v", err)
	}
}

func TestProjectDelete_Cascades(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	project := seedProject(t, db, owner.ID)
	seedActiveMember(t, db, project.ID, member.ID, models.RoleMember)

	membership := NewMembershipService(db)
	taskSvc := NewTaskService(db, membership)
	if _, err := taskSvc.Add(project.ID, &AddTaskRequest{Description: "cleanup", Priority: models.PriorityLow}, owner.ID); err != nil {
		t.Fatalf("Add task failed: %v", err)
	}

	svc := NewProjectService(db, membership)
	if err := svc.Delete(project.ID, owner.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var projects, tasks, members int64
	db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&projects)
	db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasks)
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&members)

	if projects != 0 || tasks != 0 || members != 0 {
		t.Errorf("expected full cascade, got projects=%d tasks=%d members=%d", projects, tasks, members)
	}
}

func TestProjectGetByID_RequiresMembership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	project := seedProject(t, db, owner.ID)

	svc := NewProjectService(db, NewMembershipService(db))

	if _, err := svc.GetByID(project.ID, stranger.ID); !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("stranger: expected ErrInsufficientPermissions, got %v", err)
	}
	if _, err := svc.GetByID(project.ID, owner.ID); err != nil {
		t.Errorf("owner: unexpected error %v", err)
	}
}
