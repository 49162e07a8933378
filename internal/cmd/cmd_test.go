package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/varsub/internal/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolateEnv keeps host configuration out of the command under test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INPUT_FILES", "GITHUB_WORKSPACE", "VARSUB_LOG_LEVEL", "VARSUB_DRY_RUN",
		"VARSUB_FAIL_ON_NO_MATCH", "VARSUB_INDENT", "VARSUB_EXCLUDE_PREFIXES", "VARSUB_CONFIG",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "varsub", cmd.Use)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "find")
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), Version)
}

func TestRunCommand_Substitutes(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "app/settings.json", `{"db": {"host": "localhost"}, "name": "old"}`)

	cmd := NewRunCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workspace", dir}))

	var out bytes.Buffer
	environ := []string{"db.host=prod", "name=new", "system.name=ignored"}
	err := runCommandWithOutput(cmd, []string{"**/*.json"}, environ, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"db\": {\n        \"host\": \"prod\"\n    },\n    \"name\": \"new\"\n}", string(data))

	assert.Contains(t, out.String(), "=== Substitution Summary ===")
	assert.Contains(t, out.String(), "Changed: 1")
}

func TestRunCommand_DryRun(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	original := "name: old\n"
	path := writeFile(t, dir, "a.yml", original)

	cmd := NewRunCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workspace", dir, "--dry-run"}))

	var out bytes.Buffer
	err := runCommandWithOutput(cmd, []string{"a.yml"}, []string{"name=new"}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Contains(t, out.String(), "DRY-RUN")
}

func TestRunCommand_PatternsFromEnvironment(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"name": "old"}`)
	writeFile(t, dir, "b.json", `{"name": "old"}`)
	t.Setenv("INPUT_FILES", "a.json, b.json")
	t.Setenv("GITHUB_WORKSPACE", dir)

	cmd := NewRunCommand()
	var out bytes.Buffer
	err := runCommandWithOutput(cmd, nil, []string{"name=new"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Changed: 2")
}

func TestRunCommand_FailOnNoMatch(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cmd := NewRunCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workspace", dir, "--fail-on-no-match"}))

	var out bytes.Buffer
	err := runCommandWithOutput(cmd, []string{"**/*.json"}, nil, &out)
	assert.ErrorIs(t, err, processor.ErrNoMatch)
	assert.Contains(t, out.String(), "Unmatched patterns:")
}

func TestRunCommand_UnmatchedIsNotFatalByDefault(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cmd := NewRunCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workspace", dir}))

	var out bytes.Buffer
	require.NoError(t, runCommandWithOutput(cmd, []string{"missing.json"}, nil, &out))
}

func TestRunCommand_InvalidConfiguration(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		flags   []string
		args    []string
		wantErr string
	}{
		{name: "no patterns", flags: nil, args: nil, wantErr: "at least one search pattern"},
		{name: "bad log level", flags: []string{"--log-level", "loud"}, args: []string{"*.json"}, wantErr: "invalid log_level"},
		{name: "negative indent", flags: []string{"--indent=-2"}, args: []string{"*.json"}, wantErr: "indent must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRunCommand()
			flags := append([]string{"--workspace", t.TempDir()}, tt.flags...)
			require.NoError(t, cmd.ParseFlags(flags))

			var out bytes.Buffer
			err := runCommandWithOutput(cmd, tt.args, nil, &out)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRunCommand_ConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `{"name": "old"}`)
	cfgPath := writeFile(t, dir, "custom.yaml", "files: [a.json]\nindent: 2\n")

	cmd := NewRunCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workspace", dir, "--config", cfgPath}))

	var out bytes.Buffer
	require.NoError(t, runCommandWithOutput(cmd, nil, []string{"name=new"}, &out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"new\"\n}", string(data))
}

func TestFindCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "sub/b.json", "{}")
	writeFile(t, dir, "sub/c.yml", "")

	var out, logs bytes.Buffer
	require.NoError(t, findFilesWithOutput("**/*.json", dir, "warn", &out, &logs))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "sub", "b.json"),
	}, lines)

	t.Run("bad level", func(t *testing.T) {
		err := findFilesWithOutput("*.json", dir, "loud", &out, &logs)
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("no match prints nothing", func(t *testing.T) {
		var empty bytes.Buffer
		require.NoError(t, findFilesWithOutput("*.xml", dir, "warn", &empty, &logs))
		assert.Empty(t, empty.String())
	})
}

func TestFindCommand_ViaRoot(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "values-dev.yaml", "")
	writeFile(t, dir, "values-prod.yaml", "")
	writeFile(t, dir, "values-test.yaml", "")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"find", "--workspace", dir, "values-{dev,prod}.*"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "values-dev.yaml")
	assert.Contains(t, out.String(), "values-prod.yaml")
	assert.NotContains(t, out.String(), "values-test.yaml")
}

func TestFindCommand_WorkspaceFromEnvironment(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "deploy/app.json", "{}")
	t.Setenv("GITHUB_WORKSPACE", dir)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"find", "deploy/*.json"})

	require.NoError(t, root.Execute())
	assert.Equal(t, filepath.Join(dir, "deploy", "app.json")+"\n", out.String())
}

func TestFindCommand_WorkspaceFromConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "svc/app.json", "{}")
	cfgPath := writeFile(t, t.TempDir(), "varsub.yaml", "workspace: "+dir+"\n")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"find", "--config", cfgPath, "svc/*.json"})

	require.NoError(t, root.Execute())
	assert.Equal(t, filepath.Join(dir, "svc", "app.json")+"\n", out.String())

	t.Run("flag wins", func(t *testing.T) {
		other := t.TempDir()
		writeFile(t, other, "svc/other.json", "{}")

		root := NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs([]string{"find", "--config", cfgPath, "--workspace", other, "svc/*.json"})

		require.NoError(t, root.Execute())
		assert.Equal(t, filepath.Join(other, "svc", "other.json")+"\n", out.String())
	})
}
