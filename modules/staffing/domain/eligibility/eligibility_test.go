package eligibility

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
)

func TestDefault(t *testing.T) {
	tables := Default()

	assert.True(t, tables.BondTypeBlocksAppointment("incoming-secondment"))
	assert.False(t, tables.BondTypeBlocksAppointment("career"))

	assert.True(t, tables.ClosingReasonValid("resignation"))
	assert.True(t, tables.ClosingReasonValid("end-of-term"))
	assert.False(t, tables.ClosingReasonValid("abdication"))

	assert.True(t, tables.PlacementKindAllowed(servant.CategoryCareer, "internal"))
	assert.True(t, tables.PlacementKindAllowed(servant.CategoryCareer, "external"))
	assert.False(t, tables.PlacementKindAllowed(servant.CategoryIncomingSecondment, "internal"))
	assert.True(t, tables.PlacementKindAllowed(servant.CategoryIncomingSecondment, "external"))
	assert.False(t, tables.PlacementKindAllowed(servant.CategoryIntern, "external"))

	assert.True(t, tables.BondTypeAllowed(servant.CategoryCareer, "career"))
	assert.False(t, tables.BondTypeAllowed(servant.CategoryIntern, "career"))
	assert.False(t, tables.BondTypeAllowed(servant.Category("unknown"), "career"))
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	assert.True(t, tables.ClosingReasonValid("retirement"))
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.toml")
	override := `
[appointment]
forbidden_bond_types = ["intern"]

[closing]
reasons = ["custom-reason"]

[placement.kinds]
career = ["internal"]

[bond.types]
career = ["career", "temporary"]
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	tables, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tables.BondTypeBlocksAppointment("intern"))
	assert.False(t, tables.BondTypeBlocksAppointment("incoming-secondment"))
	assert.True(t, tables.ClosingReasonValid("custom-reason"))
	assert.False(t, tables.ClosingReasonValid("resignation"))
	assert.True(t, tables.BondTypeAllowed(servant.CategoryCareer, "temporary"))
	assert.False(t, tables.PlacementKindAllowed(servant.CategoryCareer, "external"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[closing\nreasons = ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
