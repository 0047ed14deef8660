package service

import (
	"context"
	"errors"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/exposure"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/astrotrack/astrotrack/internal/telemetry"
	"go.uber.org/zap"
)

// SessionService manages a project's observation sessions. Access follows
// the parent project's rules.
type SessionService interface {
	List(ctx context.Context, userID, projectID string) (map[string]model.Session, error)
	Get(ctx context.Context, userID, projectID, date string) (*model.Session, error)
	Create(ctx context.Context, userID, projectID string, input map[string]any) (*model.Session, error)
	Update(ctx context.Context, userID, projectID, date string, patch map[string]any) (*model.Session, error)
	Delete(ctx context.Context, userID, projectID, date string) error
}

type sessionService struct {
	r        repo.SessionRepo
	projects repo.ProjectRepo
	support
}

func NewSessionService(r repo.SessionRepo, projects repo.ProjectRepo, cache Cache, events EventPublisher, log *zap.Logger) SessionService {
	return &sessionService{r: r, projects: projects, support: support{cache: cache, events: events, log: log}}
}

func (s *sessionService) project(ctx context.Context, userID, projectID string, write bool) (*model.Project, error) {
	p, err := s.projects.GetMeta(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	allowed := p.CanRead(userID)
	if write {
		allowed = p.CanWrite(userID)
	}
	if !allowed {
		return nil, denied(userID)
	}
	return p, nil
}

func (s *sessionService) List(ctx context.Context, userID, projectID string) (map[string]model.Session, error) {
	if _, err := s.project(ctx, userID, projectID, false); err != nil {
		return nil, err
	}
	return s.r.List(ctx, projectID)
}

func (s *sessionService) Get(ctx context.Context, userID, projectID, date string) (*model.Session, error) {
	if _, err := s.project(ctx, userID, projectID, false); err != nil {
		return nil, err
	}
	sess, err := s.r.Get(ctx, projectID, date)
	if err != nil {
		return nil, storeErr(err, "session")
	}
	return sess, nil
}

func (s *sessionService) Create(ctx context.Context, userID, projectID string, input map[string]any) (*model.Session, error) {
	var in model.SessionInput
	if err := validation.Decode(input, &in); err != nil {
		return nil, err
	}
	p, err := s.project(ctx, userID, projectID, true)
	if err != nil {
		return nil, err
	}

	sess := in.ToSession()
	if err := validation.Validate(sess); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, projectID, &sess); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return nil, validation.Errors{{Field: "date", Message: "a session already exists for this date"}}
		}
		return nil, storeErr(err, "project")
	}

	s.invalidateProject(ctx, p)
	total := exposure.Summarize(map[string]model.Session{sess.Date: sess}).TotalExposureSeconds
	s.publish(ctx, EventSessionLogged, SessionEvent{ProjectID: projectID, UserID: userID, Date: sess.Date, ExposureSeconds: total})
	telemetry.RecordSessionLogged(ctx, len(sess.Filters), total)

	created, err := s.r.Get(ctx, projectID, sess.Date)
	if err != nil {
		return nil, storeErr(err, "session")
	}
	return created, nil
}

func (s *sessionService) Update(ctx context.Context, userID, projectID, date string, patch map[string]any) (*model.Session, error) {
	var in model.SessionPatch
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	p, err := s.project(ctx, userID, projectID, true)
	if err != nil {
		return nil, err
	}
	sess, err := s.r.Get(ctx, projectID, date)
	if err != nil {
		return nil, storeErr(err, "session")
	}

	in.Apply(sess)
	if err := validation.Validate(sess); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, projectID, sess); err != nil {
		return nil, storeErr(err, "session")
	}
	s.invalidateProject(ctx, p)

	updated, err := s.r.Get(ctx, projectID, date)
	if err != nil {
		return nil, storeErr(err, "session")
	}
	return updated, nil
}

func (s *sessionService) Delete(ctx context.Context, userID, projectID, date string) error {
	p, err := s.project(ctx, userID, projectID, true)
	if err != nil {
		return err
	}
	if _, err := s.r.Get(ctx, projectID, date); err != nil {
		return storeErr(err, "session")
	}
	if err := s.r.Delete(ctx, projectID, date); err != nil {
		return storeErr(err, "session")
	}
	s.invalidateProject(ctx, p)
	return nil
}

func (s *sessionService) invalidateProject(ctx context.Context, p *model.Project) {
	tags := []string{projectTag(p.ID), userProjectsTag(p.UserID)}
	for _, c := range p.Collaborators {
		tags = append(tags, userProjectsTag(c))
	}
	s.invalidate(ctx, tags...)
}
