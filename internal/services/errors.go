package services

import "github.com/tmatias/planwise/backend/pkg/response"

// Business errors shared across services. Handlers translate these to
// HTTP responses via response.Error; tests compare against them with
// errors.Is.
var (
	ErrUserNotFound    = response.NewNotFound("User not found.")
	ErrProjectNotFound = response.NewNotFound("Project not found.")
	ErrTaskNotFound    = response.NewNotFound("Task not found.")
	ErrMemberNotFound  = response.NewNotFound("Member not found.")

	ErrInsufficientPermissions = response.NewForbidden("You do not have sufficient permissions to perform this action.")

	ErrInvalidCredentials = response.NewUnauthorized("Invalid credentials.")

	ErrPasswordsDoNotMatch = response.NewBadRequest("The passwords do not match.")

	ErrEmailAlreadyInUse    = response.NewConflict("The email address is already in use.")
	ErrProjectAlreadyActive = response.NewConflict("Project has already been started.")
	ErrTaskNotStartable     = response.NewConflict("Task can only be started while pending.")
	ErrTaskAlreadyCompleted = response.NewConflict("Task has already been completed.")
	ErrAlreadyMember        = response.NewConflict("User is already a member of this project.")
	ErrInvitationAccepted   = response.NewConflict("Invitation has already been accepted.")
)
