package mapper

import (
	"testing"
	"time"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStorage_StampsTimestamps(t *testing.T) {
	p := model.ProjectInput{Name: "NGC 7000"}.ToProject("u1")
	p.ID = "should-not-be-stored"
	p.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	data, err := ToStorage(p, OpCreate, "sessions")
	require.NoError(t, err)
	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "sessions")
	assert.Equal(t, docstore.ServerTimestamp, data["createdAt"])
	assert.Equal(t, docstore.ServerTimestamp, data["updatedAt"])
	assert.Equal(t, "NGC 7000", data["name"])
	assert.Equal(t, []any{}, data["tags"])

	data, err = ToStorage(p, OpUpdate, "sessions")
	require.NoError(t, err)
	assert.NotContains(t, data, "createdAt")
	assert.Equal(t, docstore.ServerTimestamp, data["updatedAt"])
}

func TestToStorage_UpdateClearsEmptiedFields(t *testing.T) {
	p := model.ProjectInput{Name: "M31"}.ToProject("u1")

	data, err := ToStorage(p, OpCreate, "sessions")
	require.NoError(t, err)
	assert.NotContains(t, data, "description")

	data, err = ToStorage(p, OpUpdate, "sessions")
	require.NoError(t, err)
	assert.Equal(t, docstore.DeleteField, data["description"])
	assert.Equal(t, docstore.DeleteField, data["catalogueDesignation"])
	assert.Equal(t, "M31", data["name"])
	assert.Equal(t, []any{}, data["tags"])
}

func TestToDomain_IdentityAndDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := &docstore.Document{
		ID: "doc-id",
		Data: map[string]any{
			"id":         "payload-id",
			"userId":     "u1",
			"name":       "M42",
			"visibility": "public",
			"status":     "active",
			"createdAt":  "2024-01-01T00:00:00.000000000Z",
		},
	}

	p, err := ToDomain[model.Project](doc, now)
	require.NoError(t, err)
	assert.Equal(t, "doc-id", p.ID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.CreatedAt.UTC())
	assert.Equal(t, now, p.UpdatedAt)
	assert.NotNil(t, p.Tags)
	assert.NotNil(t, p.Sessions)
}

func TestToDomain_Invalid(t *testing.T) {
	doc := &docstore.Document{ID: "x", Data: map[string]any{"name": "M42", "visibility": "secret"}}

	_, err := ToDomain[model.Project](doc, time.Now())
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, err.Error(), "userId")
	assert.Contains(t, err.Error(), "visibility")
}

func TestToDomain_SessionIdentityIsDate(t *testing.T) {
	doc := &docstore.Document{ID: "2024-03-01", Data: map[string]any{
		"date":    "1999-01-01",
		"filters": []any{map[string]any{"filter": "Ha", "exposureTime": int64(300), "frameCount": int64(10)}},
	}}

	s, err := ToDomain[model.Session](doc, time.Now(), WithIDField("date"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", s.Date)
	assert.Equal(t, 3000.0, s.Filters[0].Seconds())
}

func TestRoundTrip_ThroughMemoryStore(t *testing.T) {
	ctx := t.Context()
	store := docstore.NewMemory()

	original := &model.Equipment{
		ID:             "e1",
		UserID:         "u1",
		Name:           "RedCat 51",
		Category:       "telescope",
		Specifications: map[string]any{"focalLength": 250.0, "aperture": "51mm"},
		Status:         model.EquipmentStatusActive,
		UpdatedAt:      time.Now().UTC().Add(-time.Minute),
	}

	data, err := ToStorage(original, OpCreate)
	require.NoError(t, err)
	require.NoError(t, store.Commit(ctx, docstore.CreateDoc("equipment", original.ID, data)))

	doc, err := store.Get(ctx, "equipment", original.ID)
	require.NoError(t, err)
	got, err := ToDomain[model.Equipment](doc, time.Now())
	require.NoError(t, err)

	assert.False(t, got.UpdatedAt.Before(original.UpdatedAt))
	assert.False(t, got.CreatedAt.IsZero())

	got.CreatedAt, got.UpdatedAt = original.CreatedAt, original.UpdatedAt
	assert.Equal(t, original, got)
}
