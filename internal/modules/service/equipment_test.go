package service

import (
	"context"
	"errors"
	"testing"

	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testEquipment(id, owner string) *model.Equipment {
	e := &model.Equipment{
		ID:       id,
		UserID:   owner,
		Name:     "ASI2600MM",
		Category: "camera",
		Status:   model.EquipmentStatusActive,
	}
	e.Normalize()
	return e
}

func TestEquipmentService_OwnerOnly(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		repoErr error
		wantErr error
	}{
		{name: "owner reads", userID: "u1"},
		{name: "other user is forbidden", userID: "u2", wantErr: ErrForbidden},
		{name: "anonymous must sign in", userID: "", wantErr: ErrUnauthenticated},
		{name: "missing equipment", userID: "u1", repoErr: docstore.ErrNotFound, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockEquipmentRepo{}
			if tt.repoErr != nil {
				mockRepo.On("Get", ctx, "e1").Return(nil, tt.repoErr)
			} else {
				mockRepo.On("Get", ctx, "e1").Return(testEquipment("e1", "u1"), nil)
			}
			svc := NewEquipmentService(mockRepo, nil, testLog)

			got, err := svc.Get(ctx, tt.userID, "e1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "e1", got.ID)
		})
	}
}

func TestEquipmentService_WritesRequireOwner(t *testing.T) {
	ctx := context.Background()
	mockRepo := &MockEquipmentRepo{}
	mockRepo.On("Get", ctx, "e1").Return(testEquipment("e1", "u1"), nil)
	svc := NewEquipmentService(mockRepo, nil, testLog)

	_, err := svc.Update(ctx, "u2", "e1", map[string]any{"name": "Stolen"})
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(ctx, "u2", "e1")
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(ctx, "", "e1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEquipmentService_CreateRejectsNestedSpecifications(t *testing.T) {
	ctx := context.Background()
	mockRepo := &MockEquipmentRepo{}
	svc := NewEquipmentService(mockRepo, nil, testLog)

	_, err := svc.Create(ctx, "u1", map[string]any{
		"name":     "Scope",
		"category": "telescope",
		"specifications": map[string]any{
			"aperture": 130.0,
			"optics":   map[string]any{"type": "triplet"},
		},
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, err.Error(), "specifications[optics]")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEquipmentService_CreateDefaultsAndInvalidates(t *testing.T) {
	ctx := context.Background()
	mockRepo := &MockEquipmentRepo{}
	cache := &MockCache{}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(e *model.Equipment) bool {
		return e.UserID == "u1" && e.Status == model.EquipmentStatusActive &&
			e.Specifications["focalLength"] == 910.0 && e.Specifications["mount"] == "dovetail"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Equipment).ID = "e1"
	}).Return(nil)
	mockRepo.On("Get", ctx, "e1").Return(testEquipment("e1", "u1"), nil)
	cache.On("Invalidate", ctx, []string{"equipment:u1"}).Return(nil)

	svc := NewEquipmentService(mockRepo, cache, testLog)
	got, err := svc.Create(ctx, "u1", map[string]any{
		"name":           "Scope",
		"category":       "telescope",
		"specifications": map[string]any{"focalLength": 910.0, "mount": "dovetail"},
	})

	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
	mockRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
