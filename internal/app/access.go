package app

import (
	"context"

	"portfolio-api/internal/model"
	"portfolio-api/internal/repository"
)

type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Authorize grants access only when the requester owns the resource.
func Authorize(requesterID, ownerID string) Decision {
	if requesterID != "" && requesterID == ownerID {
		return Allowed
	}
	return Denied
}

// ownedProject loads a project and checks the requester owns it. A missing
// project is reported before ownership so callers can tell 404 from 403.
func ownedProject(ctx context.Context, projects repository.ProjectStore, requesterID, projectID string) (*model.Project, error) {
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if Authorize(requesterID, project.UserID) != Allowed {
		return nil, ErrForbidden
	}
	return project, nil
}
