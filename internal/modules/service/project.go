package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/exposure"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/astrotrack/astrotrack/internal/telemetry"
	"go.uber.org/zap"
)

// ProjectView is a project with its derived exposure totals.
type ProjectView struct {
	*model.Project
	Stats exposure.Summary `json:"stats"`
}

func newProjectView(p *model.Project) *ProjectView {
	return &ProjectView{Project: p, Stats: exposure.Summarize(p.Sessions)}
}

// ProjectService enforces project access: anyone may read public projects,
// owners and collaborators may read private ones, only owners may write.
// An empty userID is an anonymous caller.
type ProjectService interface {
	// List returns the projects the user owns or collaborates on, most
	// recently updated first.
	List(ctx context.Context, userID string) ([]*ProjectView, error)
	Get(ctx context.Context, userID, projectID string) (*ProjectView, error)
	Stats(ctx context.Context, userID, projectID string) (*exposure.Summary, error)
	Create(ctx context.Context, userID string, input map[string]any) (*ProjectView, error)
	Update(ctx context.Context, userID, projectID string, patch map[string]any) (*ProjectView, error)
	Delete(ctx context.Context, userID, projectID string) error
}

type projectService struct {
	r repo.ProjectRepo
	support
}

func NewProjectService(r repo.ProjectRepo, cache Cache, events EventPublisher, log *zap.Logger) ProjectService {
	return &projectService{r: r, support: support{cache: cache, events: events, log: log}}
}

func projectTag(id string) string      { return "project:" + id }
func userProjectsTag(id string) string { return "projects:" + id }

// denied picks 401 for anonymous callers and 403 for everyone else.
func denied(userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func (s *projectService) List(ctx context.Context, userID string) ([]*ProjectView, error) {
	key := userProjectsTag(userID)
	var views []*ProjectView
	if s.cached(ctx, key, &views) {
		return views, nil
	}

	owned, err := s.r.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.r.ListByCollaborator(ctx, userID)
	if err != nil {
		return nil, err
	}

	views = make([]*ProjectView, 0, len(owned)+len(shared))
	tags := []string{key}
	for _, p := range append(owned, shared...) {
		views = append(views, newProjectView(p))
		tags = append(tags, projectTag(p.ID))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UpdatedAt.After(views[j].UpdatedAt)
	})

	s.store(ctx, key, views, tags...)
	return views, nil
}

func (s *projectService) load(ctx context.Context, projectID string) (*ProjectView, error) {
	key := projectTag(projectID)
	var view ProjectView
	if s.cached(ctx, key, &view) && view.Project != nil {
		return &view, nil
	}
	p, err := s.r.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	v := newProjectView(p)
	s.store(ctx, key, v, key)
	return v, nil
}

func (s *projectService) Get(ctx context.Context, userID, projectID string) (*ProjectView, error) {
	v, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !v.CanRead(userID) {
		return nil, denied(userID)
	}
	return v, nil
}

func (s *projectService) Stats(ctx context.Context, userID, projectID string) (*exposure.Summary, error) {
	v, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return &v.Stats, nil
}

func (s *projectService) Create(ctx context.Context, userID string, input map[string]any) (*ProjectView, error) {
	var in model.ProjectInput
	if err := validation.Decode(input, &in); err != nil {
		return nil, err
	}
	p := in.ToProject(userID)
	if err := validation.Validate(p); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, p); err != nil {
		// a signed-in caller always has a user document
		return nil, fmt.Errorf("while creating project for %s: %w", userID, err)
	}

	s.invalidate(ctx, s.listTags(p)...)
	s.publish(ctx, EventProjectCreated, ProjectEvent{ProjectID: p.ID, UserID: userID, Name: p.Name})
	telemetry.RecordProjectLifecycle(ctx, "created")

	created, err := s.r.Get(ctx, p.ID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	return newProjectView(created), nil
}

func (s *projectService) Update(ctx context.Context, userID, projectID string, patch map[string]any) (*ProjectView, error) {
	var in model.ProjectPatch
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	p, err := s.r.GetMeta(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	if !p.CanWrite(userID) {
		return nil, denied(userID)
	}

	before := s.listTags(p)
	in.Apply(p)
	if err := validation.Validate(p); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, p); err != nil {
		return nil, storeErr(err, "project")
	}
	s.invalidate(ctx, append(before, s.listTags(p)...)...)

	updated, err := s.r.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	return newProjectView(updated), nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID string) error {
	p, err := s.r.GetMeta(ctx, projectID)
	if err != nil {
		return storeErr(err, "project")
	}
	if !p.CanWrite(userID) {
		return denied(userID)
	}
	if err := s.r.Delete(ctx, p); err != nil {
		return storeErr(err, "project")
	}

	s.invalidate(ctx, s.listTags(p)...)
	s.publish(ctx, EventProjectDeleted, ProjectEvent{ProjectID: p.ID, UserID: userID, Name: p.Name})
	telemetry.RecordProjectLifecycle(ctx, "deleted")
	return nil
}

// listTags covers the project entry and every list it appears in.
func (s *projectService) listTags(p *model.Project) []string {
	tags := []string{projectTag(p.ID), userProjectsTag(p.UserID)}
	for _, c := range p.Collaborators {
		tags = append(tags, userProjectsTag(c))
	}
	return tags
}
