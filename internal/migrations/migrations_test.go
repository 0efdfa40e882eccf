package migrations_test

import (
	"io"
	"os"
	"testing"

	"kanboard/internal/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_VersionsHaveUpAndDown(t *testing.T) {
	// Arrange
	src, err := migrations.Source()
	require.NoError(t, err)
	defer src.Close()

	// Act
	var versions []uint
	version, err := src.First()
	for err == nil {
		versions = append(versions, version)

		up, _, upErr := src.ReadUp(version)
		require.NoError(t, upErr, "version %d has no up file", version)
		body, _ := io.ReadAll(up)
		up.Close()
		assert.NotEmpty(t, body)

		down, _, downErr := src.ReadDown(version)
		require.NoError(t, downErr, "version %d has no down file", version)
		down.Close()

		version, err = src.Next(version)
	}

	// Assert
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []uint{1, 2, 3}, versions)
}
