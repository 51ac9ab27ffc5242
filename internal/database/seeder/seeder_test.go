package seeder

import (
	"context"
	"errors"
	"testing"

	"captioncraft/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	database.DB
}

type recordingSeeder struct {
	name string
	err  error
	ran  *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Run(context.Context, database.DB) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestRunner_RunsInOrderAndStopsOnError(t *testing.T) {
	var ran []string
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "a", ran: &ran},
		nil,
		recordingSeeder{name: "b", err: errors.New("boom"), ran: &ran},
		recordingSeeder{name: "c", ran: &ran},
	}}

	err := r.Run(context.Background(), fakeDB{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed b")
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestRunner_NilDB(t *testing.T) {
	assert.Error(t, Runner{}.Run(context.Background(), nil))
}

func TestMissingColumns(t *testing.T) {
	existing := map[string]struct{}{"id": {}, "email": {}}

	require.NoError(t, missingColumns("profiles", existing, []string{"id", "email"}))

	err := missingColumns("profiles", existing, []string{"id", "phone", "username"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiles.phone, profiles.username")
}

func TestDemoProfileSeeder_RejectsShortPassword(t *testing.T) {
	err := DemoProfileSeeder{Password: "short"}.Run(context.Background(), fakeDB{})
	assert.Error(t, err)
}
