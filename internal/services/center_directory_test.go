package services

import (
	"context"
	"errors"
	"testing"

	"drivesafe-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCenterDirectory(t *testing.T) {
	repo := &stubRepo{centers: []domain.EmergencyCenter{
		center(1, "A", 1, 1),
		center(2, "B", 2, 2),
	}}

	dir, err := LoadCenterDirectory(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	// Mutating the source or a returned copy must not leak into the directory.
	repo.centers[0].Name = "changed"
	all := dir.All()
	all[1].Name = "changed too"
	assert.Equal(t, "A", dir.All()[0].Name)
	assert.Equal(t, "B", dir.All()[1].Name)

	m, err := dir.Nearest(domain.Coordinates{Lat: 2.1, Lng: 2.1})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Center.ID)
}

func TestLoadCenterDirectoryRejectsBadCenter(t *testing.T) {
	repo := &stubRepo{centers: []domain.EmergencyCenter{center(1, "Bad", 91, 0)}}

	_, err := LoadCenterDirectory(context.Background(), repo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCoordinate))
}

func TestLoadCenterDirectoryRepoError(t *testing.T) {
	_, err := LoadCenterDirectory(context.Background(), &stubRepo{err: errors.New("db down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestEmptyDirectoryNearest(t *testing.T) {
	dir := NewCenterDirectory(nil)
	_, err := dir.Nearest(domain.Coordinates{})
	assert.True(t, errors.Is(err, domain.ErrEmptyCenterList))
}
