package clinic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfileEmptyPathReturnsSeed(t *testing.T) {
	info, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, Seed(), info)
}

func TestLoadProfileOverridesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clinic.yaml")
	content := "doctor: Dr. Meera Iyer\nservices:\n  - दांत का इलाज\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	info, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "Dr. Meera Iyer", info.Doctor)
	assert.Equal(t, []string{"दांत का इलाज"}, info.Services)
	assert.Equal(t, Seed().Address, info.Address)
	assert.Equal(t, Seed().Name, info.Name)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: [unclosed"), 0o600))

	_, err := LoadProfile(path)
	require.Error(t, err)
}
