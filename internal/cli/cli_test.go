package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fliptech/ftab/internal/config"
)

// run executes the root command with a fresh database and profile flags
// unless the caller passes its own.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db, "--profile", "default", "--config", "", "--log-level", "error", "--analytics-endpoint", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "ftab.db")
}

func TestExperimentsCmd(t *testing.T) {
	out, err := run(t, tempDB(t), "experiments", "--all=false")
	require.NoError(t, err)

	assert.Contains(t, out, "hero_section")
	assert.Contains(t, out, "control:50, bold:50")
	assert.NotContains(t, out, "pricing_section")

	out, err = run(t, tempDB(t), "experiments", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "pricing_section")
	assert.Contains(t, out, "INACTIVE")
}

func TestExperimentsCmd_FlagsMisconfiguredWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
experiments:
  - id: short
    name: Short
    active: true
    variants: [{id: bold, weight: 60}]
`), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--db", tempDB(t), "--config", path, "experiments", "--all=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "60 (!)")
}

func TestAssignCmd_ExplicitUser(t *testing.T) {
	db := tempDB(t)
	first, err := run(t, db, "assign", "hero_section", "--user", "user_123")
	require.NoError(t, err)
	assert.Contains(t, first, "User:       user_123")

	for i := 0; i < 5; i++ {
		again, err := run(t, db, "assign", "hero_section", "--user", "user_123")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAssignCmd_InactiveNote(t *testing.T) {
	out, err := run(t, tempDB(t), "assign", "pricing_section", "--user", "user_1")
	require.NoError(t, err)
	assert.Contains(t, out, "Variant:    control")
	assert.Contains(t, out, "inactive")
}

func TestAssignCmd_ProfileIdentityPersists(t *testing.T) {
	db := tempDB(t)

	first, err := run(t, db, "assign", "cta_test", "--user=")
	require.NoError(t, err)
	second, err := run(t, db, "assign", "cta_test", "--user=")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "User:       user_")
}

func TestOverrideCmds(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "override", "set", "hero_section", "bold")
	require.NoError(t, err)
	assert.Contains(t, out, "Override set: hero_section -> bold")

	out, err = run(t, db, "assign", "hero_section", "--user=")
	require.NoError(t, err)
	assert.Contains(t, out, "Variant:    bold")

	out, err = run(t, db, "override", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hero_section -> bold")

	_, err = run(t, db, "override", "clear", "hero_section")
	require.NoError(t, err)
	out, err = run(t, db, "override", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No overrides.")
}

func TestOverrideSetCmd_Rejects(t *testing.T) {
	db := tempDB(t)

	_, err := run(t, db, "override", "set", "nope", "bold")
	assert.Error(t, err)

	_, err = run(t, db, "override", "set", "pricing_section", "control")
	assert.Error(t, err)
}

func TestIdentityCmds(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "identity", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ab_test_user_id = user_")
	firstID := lineValue(out, "User ID: ")

	out, err = run(t, db, "identity", "show")
	require.NoError(t, err)
	assert.Equal(t, firstID, lineValue(out, "User ID: "))

	_, err = run(t, db, "identity", "reset", "--all=false")
	require.NoError(t, err)

	out, err = run(t, db, "identity", "show")
	require.NoError(t, err)
	assert.NotEqual(t, firstID, lineValue(out, "User ID: "))
}

func TestIdentityResetAll(t *testing.T) {
	db := tempDB(t)

	_, err := run(t, db, "admin", "on")
	require.NoError(t, err)
	_, err = run(t, db, "identity", "reset", "--all")
	require.NoError(t, err)

	out, err := run(t, db, "identity", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "ab_test_admin_mode")
}

func TestAdminCmd(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "admin", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin mode: on")

	out, err = run(t, db, "identity", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ab_test_admin_mode = true")

	_, err = run(t, db, "admin", "maybe")
	assert.Error(t, err)
}

func TestResolveCmd(t *testing.T) {
	out, err := run(t, tempDB(t), "resolve", "fliptech.pro", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "domain: fliptech.pro")
	assert.Contains(t, out, "audience: professional")
	assert.NotContains(t, out, "not configured")

	out, err = run(t, tempDB(t), "resolve", "unknown-host.example", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "not configured; serving default fliptechpro.com")

	out, err = run(t, tempDB(t), "resolve", "fliptech.pro", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"measurement_id": "G-FTPPRO001"`)
}

func TestTrackCmd(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "track", "view", "hero_section", "--host", "fliptech.pro")
	require.NoError(t, err)
	assert.Contains(t, out, "ab_test_view: hero_section -> ")

	out, err = run(t, db, "track", "convert", "cta_test", "bold", "--type", "cta_click")
	require.NoError(t, err)
	assert.Contains(t, out, "ab_test_conversion: cta_test/bold")

	out, err = run(t, db, "track", "domain", "--host", "fliptech.pro")
	require.NoError(t, err)
	assert.Contains(t, out, "domain_assignment: fliptech.pro (professional)")

	_, err = run(t, db, "track", "convert", "cta_test")
	assert.Error(t, err)

	_, err = run(t, db, "track", "scroll", "cta_test", "bold")
	assert.Error(t, err)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")

	out, err := run(t, tempDB(t), "init", "--output", path, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cat, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cat)

	_, err = run(t, tempDB(t), "init", "--output", path, "--yes")
	assert.Error(t, err, "refuses to overwrite")
}

func TestOTPCmd_NoServer(t *testing.T) {
	_, err := run(t, tempDB(t), "otp")
	assert.Error(t, err)
}

func TestOTPCmd(t *testing.T) {
	db := tempDB(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(db), ".ftab-token"), []byte("abcd1234"), 0600))

	out, err := run(t, db, "otp")
	require.NoError(t, err)
	assert.Contains(t, out, "/admin?token=abcd1234")
}

func lineValue(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return ""
}
