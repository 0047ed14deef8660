package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/mapper"
	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type ProjectRepo interface {
	// Create stores the project, its sessions, the owner's projectIds entry
	// and each collaborator's collaboratingProjectIds entry in one atomic
	// batch. It assigns p.ID when empty.
	Create(ctx context.Context, p *model.Project) error
	// Get returns the project with its sessions.
	Get(ctx context.Context, id string) (*model.Project, error)
	// GetMeta returns the project without loading sessions.
	GetMeta(ctx context.Context, id string) (*model.Project, error)
	ListByOwner(ctx context.Context, userID string) ([]*model.Project, error)
	ListByCollaborator(ctx context.Context, userID string) ([]*model.Project, error)
	// Update also moves the project id between the collaboratingProjectIds
	// of added and removed collaborators.
	Update(ctx context.Context, p *model.Project) error
	// Delete removes the project, every session and every reference to it
	// (owner, collaborators, favorites, collections) in one atomic batch.
	Delete(ctx context.Context, p *model.Project) error
}

type projectRepo struct {
	store    docstore.Store
	projects docs[model.Project]
	sessions SessionRepo
}

func NewProjectRepo(store docstore.Store, sessions SessionRepo) ProjectRepo {
	return &projectRepo{
		store:    store,
		projects: docs[model.Project]{store: store, collection: CollectionProjects},
		sessions: sessions,
	}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = docstore.NewID()
	}
	data, err := mapper.ToStorage(p, mapper.OpCreate, subSessions)
	if err != nil {
		return err
	}

	writes := []docstore.Write{docstore.CreateDoc(CollectionProjects, p.ID, data)}
	for date, s := range p.Sessions {
		sd, err := mapper.ToStorage(s, mapper.OpCreate)
		if err != nil {
			return fmt.Errorf("sessions[%s]: %w", date, err)
		}
		writes = append(writes, docstore.CreateDoc(sessionsCollection(p.ID), date, sd))
	}

	users := userUpdates{}
	users.add(p.UserID, "projectIds", docstore.ArrayUnion(p.ID))
	collaborators, err := r.existingUsers(ctx, p.Collaborators, p.UserID)
	if err != nil {
		return err
	}
	for _, c := range collaborators {
		users.add(c, "collaboratingProjectIds", docstore.ArrayUnion(p.ID))
	}
	return r.store.Commit(ctx, append(writes, users.writes()...)...)
}

func (r *projectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := r.projects.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.attachSessions(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) GetMeta(ctx context.Context, id string) (*model.Project, error) {
	return r.projects.get(ctx, id)
}

func (r *projectRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Project, error) {
	return r.listWithSessions(ctx, docstore.Where("userId", docstore.OpEqual, userID))
}

func (r *projectRepo) ListByCollaborator(ctx context.Context, userID string) ([]*model.Project, error) {
	return r.listWithSessions(ctx, docstore.Where("collaborators", docstore.OpArrayContains, userID))
}

func (r *projectRepo) listWithSessions(ctx context.Context, filters ...docstore.Filter) ([]*model.Project, error) {
	projects, err := r.projects.query(ctx, filters...)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if err := r.attachSessions(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *projectRepo) attachSessions(ctx context.Context, p *model.Project) error {
	sessions, err := r.sessions.List(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Sessions = sessions
	return nil
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	current, err := r.projects.get(ctx, p.ID)
	if err != nil {
		return err
	}
	data, err := mapper.ToStorage(p, mapper.OpUpdate, subSessions)
	if err != nil {
		return err
	}
	writes := []docstore.Write{docstore.UpdateDoc(CollectionProjects, p.ID, docstore.UpdatesFrom(data)...)}

	added, removed := diffIDs(current.Collaborators, p.Collaborators)
	users := userUpdates{}
	addedUsers, err := r.existingUsers(ctx, added, p.UserID)
	if err != nil {
		return err
	}
	for _, c := range addedUsers {
		users.add(c, "collaboratingProjectIds", docstore.ArrayUnion(p.ID))
	}
	removedUsers, err := r.existingUsers(ctx, removed, p.UserID)
	if err != nil {
		return err
	}
	for _, c := range removedUsers {
		users.add(c, "collaboratingProjectIds", docstore.ArrayRemove(p.ID))
	}
	return r.store.Commit(ctx, append(writes, users.writes()...)...)
}

func (r *projectRepo) Delete(ctx context.Context, p *model.Project) error {
	sessionDocs, err := r.store.Query(ctx, sessionsCollection(p.ID))
	if err != nil {
		return err
	}
	writes := make([]docstore.Write, 0, len(sessionDocs)+2)
	for _, d := range sessionDocs {
		writes = append(writes, docstore.DeleteDoc(sessionsCollection(p.ID), d.ID))
	}
	writes = append(writes, docstore.DeleteDoc(CollectionProjects, p.ID))

	users := userUpdates{}
	users.add(p.UserID, "projectIds", docstore.ArrayRemove(p.ID))
	collaborators, err := r.existingUsers(ctx, p.Collaborators, p.UserID)
	if err != nil {
		return err
	}
	for _, c := range collaborators {
		users.add(c, "collaboratingProjectIds", docstore.ArrayRemove(p.ID))
	}
	fans, err := r.store.Query(ctx, CollectionUsers,
		docstore.Where("favoriteProjectIds", docstore.OpArrayContains, p.ID))
	if err != nil {
		return err
	}
	for _, d := range fans {
		users.add(d.ID, "favoriteProjectIds", docstore.ArrayRemove(p.ID))
	}
	writes = append(writes, users.writes()...)

	collections, err := r.store.Query(ctx, CollectionCollections,
		docstore.Where("projectIds", docstore.OpArrayContains, p.ID))
	if err != nil {
		return err
	}
	for _, d := range collections {
		writes = append(writes, docstore.UpdateDoc(CollectionCollections, d.ID,
			docstore.Update{Field: "projectIds", Value: docstore.ArrayRemove(p.ID)},
			docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp},
		))
	}
	return r.store.Commit(ctx, writes...)
}

// existingUsers keeps the ids that have a user document, skipping owner.
// Collaborators may be named before they first sign in; their references
// are filled in when the user document is created.
func (r *projectRepo) existingUsers(ctx context.Context, ids []string, owner string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || id == owner || seen[id] {
			continue
		}
		seen[id] = true
		_, err := r.store.Get(ctx, CollectionUsers, id)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// diffIDs reports the ids only in next (added) and only in prev (removed).
func diffIDs(prev, next []string) (added, removed []string) {
	for _, id := range next {
		if !slices.Contains(prev, id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !slices.Contains(next, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// userUpdates folds every change to one user into a single write, so a
// batch never touches the same user document twice.
type userUpdates struct {
	order   []string
	updates map[string][]docstore.Update
}

func (u *userUpdates) add(userID, field string, value any) {
	if u.updates == nil {
		u.updates = make(map[string][]docstore.Update)
	}
	if _, ok := u.updates[userID]; !ok {
		u.order = append(u.order, userID)
	}
	u.updates[userID] = append(u.updates[userID], docstore.Update{Field: field, Value: value})
}

func (u *userUpdates) writes() []docstore.Write {
	out := make([]docstore.Write, 0, len(u.order))
	for _, id := range u.order {
		updates := append(u.updates[id], docstore.Update{Field: "updatedAt", Value: docstore.ServerTimestamp})
		out = append(out, docstore.UpdateDoc(CollectionUsers, id, updates...))
	}
	return out
}
