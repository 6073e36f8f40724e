package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
userEmpty#00000001 id:long = User;
userFull#00000002 flags:# id:long nick:flags.0?string = User;

---functions---

users.getUsers#000000aa id:Vector<long> = Vector<User>;

// LAYER 181
`

func setupProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tlc.json"), []byte(config), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.tl"), []byte(testSchema), 0o644))
	return dir
}

func TestController_Generate(t *testing.T) {
	// Test: Generate runs the whole pipeline and writes the artifact files
	dir := setupProject(t, `{"name": "test", "package": "layer181"}`)

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	require.NoError(t, ctrl.Generate(context.Background()))

	out := filepath.Join(dir, "gen")
	for _, name := range []string{
		"tl_base_gen.go",
		"tl_types_gen.go",
		"tl_functions_users_gen.go",
		"tl_manifest_gen.go",
		"tl_registry_gen.go",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	data, err := os.ReadFile(filepath.Join(out, "tl_registry_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package layer181")
	assert.Contains(t, string(data), "const Layer = 181")
}

func TestController_GenerateOutputOverride(t *testing.T) {
	// Test: The --output flag overrides the configured build output
	dir := setupProject(t, `{"name": "test"}`)
	out := filepath.Join(t.TempDir(), "artifacts")

	flags := &Flags{Config: filepath.Join(dir, "tlc.json"), Output: out}
	ctrl := NewController(flags)

	require.NoError(t, ctrl.Generate(context.Background()))
	assert.FileExists(t, filepath.Join(out, "tl_registry_gen.go"))
	assert.NoDirExists(t, filepath.Join(dir, "gen"))
}

func TestController_Check(t *testing.T) {
	// Test: Check validates the schema without writing anything
	dir := setupProject(t, `{"name": "test"}`)

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	require.NoError(t, ctrl.Check(context.Background()))
	assert.NoDirExists(t, filepath.Join(dir, "gen"))
}

func TestController_CheckBadSchema(t *testing.T) {
	// Test: A schema with a duplicate combinator fails the check
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tlc.json"), []byte(`{"name": "test"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.tl"),
		[]byte("thing#00000001 = Thing;\nthing#00000002 = Thing;\n"), 0o644))

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	err := ctrl.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate combinator")
}

func TestController_AllowDuplicates(t *testing.T) {
	// Test: allowDuplicates restores last-wins parsing
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tlc.json"),
		[]byte(`{"name": "test", "allowDuplicates": true}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.tl"),
		[]byte("thing#00000001 = Thing;\nthing#00000002 = Thing;\n"), 0o644))

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	require.NoError(t, ctrl.Check(context.Background()))
}

func TestController_MultipleSchemaFiles(t *testing.T) {
	// Test: Schema documents are concatenated in configured order
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tlc.json"),
		[]byte(`{"name": "test", "schema": ["core.tl", "api.tl"]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.tl"),
		[]byte("userEmpty#00000001 id:long = User;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.tl"),
		[]byte("holder#00000002 user:User = Holder;\n// LAYER 5\n"), 0o644))

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	require.NoError(t, ctrl.Generate(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "gen", "tl_registry_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "const Layer = 5")
	assert.Contains(t, string(data), "UserEmptyID")
	assert.Contains(t, string(data), "HolderID")
}

func TestController_MissingSchemaFile(t *testing.T) {
	// Test: A missing schema document is a build error
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tlc.json"), []byte(`{"name": "test"}`), 0o644))

	flags := &Flags{Config: filepath.Join(dir, "tlc.json")}
	ctrl := NewController(flags)

	err := ctrl.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema")
}
