package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/tmatias/planwise/backend/internal/models"
	"github.com/tmatias/planwise/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// One in-memory sqlite connection is one database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.ActivityLog{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

var testUserSeq int

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	testUserSeq++
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", testUserSeq),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint) *models.Project {
	t.Helper()

	svc := NewProjectService(db, NewMembershipService(db))
	project, err := svc.Create(&CreateProjectRequest{Name: "Test Project"}, ownerID)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func seedActiveMember(t *testing.T, db *gorm.DB, projectID, userID uint, role string) *models.ProjectMember {
	t.Helper()

	now := time.Now()
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		Status:    models.MemberStatusActive,
		JoinedAt:  &now,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return member
}
