package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/posterior/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState restores package state shared by every command invocation
func resetState(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("POSTERIOR_CACHE_DIR", filepath.Join(home, "cache"))

	viper.Reset()
	bindFlags()

	resetFlags := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	resetFlags(rootCmd.PersistentFlags())
	for _, c := range []*cobra.Command{runCmd, checkCmd, templateCmd, cacheCmd, configCmd} {
		resetFlags(c.Flags())
	}

	cfg = nil
	logger = nil
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	resetState(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "posterior "+Version+"\n", out)
}

func TestRun_Template(t *testing.T) {
	resetState(t)

	tmpl, _, err := execute(t, "template")
	require.NoError(t, err)

	out, _, err := execute(t, "run", writeModel(t, tmpl))
	require.NoError(t, err)

	assert.Contains(t, out, `>> "The old bridge is safe to cross"`)
	assert.Contains(t, out, "— \"Fresh cracks in the main span\"")
	assert.Contains(t, out, "• «Structurally sound» will have a chance: 57%")
	assert.Contains(t, out, "• «Failing»            will have a chance: 43%")
}

func TestRun_JSON(t *testing.T) {
	resetState(t)

	out, _, err := execute(t, "run", writeModel(t, exampleModel), "--format", "json")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []int{57, 43}, report.Score.Percentages)
	assert.Equal(t, 100, report.Score.PercentSum)
	assert.Len(t, report.Outcomes, 2)
}

func TestRun_OutFile(t *testing.T) {
	resetState(t)
	dest := filepath.Join(t.TempDir(), "report.md")

	out, stderr, err := execute(t, "run", writeModel(t, exampleModel), "--format", "markdown", "--out", dest)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Contains(t, stderr, "✓ Wrote markdown report")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# The old bridge is safe to cross"))
}

func TestRun_Verbose(t *testing.T) {
	resetState(t)
	path := writeModel(t, exampleModel)

	_, stderr, err := execute(t, "run", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "✓ Read 2 hypotheses and 2 facts")
	assert.Contains(t, stderr, "percentages add up to 100%")

	_, stderr, err = execute(t, "run", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "✓ Served from cache")
}

func TestRun_NoCache(t *testing.T) {
	resetState(t)
	path := writeModel(t, exampleModel)

	for i := 0; i < 2; i++ {
		_, stderr, err := execute(t, "run", path, "-v", "--no-cache")
		require.NoError(t, err)
		assert.NotContains(t, stderr, "Served from cache")
	}
}

func TestRun_InvalidModel(t *testing.T) {
	resetState(t)

	input := strings.Replace(exampleModel, "hypothesis-count;2", "hypothesis-count;3", 1)
	_, _, err := execute(t, "run", writeModel(t, input))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCountMismatch)
	assert.Contains(t, err.Error(), "run failed")
}

func TestRun_EnvFormat(t *testing.T) {
	resetState(t)
	t.Setenv("POSTERIOR_OUTPUT_FORMAT", "markdown")

	out, _, err := execute(t, "run", writeModel(t, exampleModel))
	require.NoError(t, err)
	assert.Contains(t, out, "## Posterior")
}

func TestRun_InvalidEnvConfig(t *testing.T) {
	resetState(t)
	t.Setenv("POSTERIOR_LOGGING_LEVEL", "loud")

	_, _, err := execute(t, "run", writeModel(t, exampleModel))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestRun_LLMRequiresKey(t *testing.T) {
	resetState(t)

	_, _, err := execute(t, "run", writeModel(t, exampleModel), "--llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestCheck(t *testing.T) {
	resetState(t)

	out, _, err := execute(t, "check", writeModel(t, exampleModel))
	require.NoError(t, err)
	assert.Contains(t, out, "is consistent")
	assert.Contains(t, out, "Hypotheses:  2")
	assert.Contains(t, out, "Table:       2x2")
}

func TestCheck_NoThesis(t *testing.T) {
	resetState(t)

	input := strings.Replace(exampleModel, "thesis;The old bridge is safe to cross\n", "", 1)
	out, _, err := execute(t, "check", writeModel(t, input))
	require.NoError(t, err)
	assert.Contains(t, out, "(none, required for reports)")
}

func TestTemplateKeywords(t *testing.T) {
	resetState(t)

	out, _, err := execute(t, "template", "keywords")
	require.NoError(t, err)
	assert.Contains(t, out, "thesis")
	assert.Contains(t, out, "prob               4 fields")
}

func TestConfigShow(t *testing.T) {
	resetState(t)

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Configuration")
	assert.Contains(t, out, "format: text")
	assert.NotContains(t, out, "api_key")
}

func TestConfigInit(t *testing.T) {
	home := resetState(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")

	data, err := os.ReadFile(filepath.Join(home, ".posterior", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Posterior Configuration File")
	assert.Contains(t, string(data), "respect_robots: true")

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigFile(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0644))

	out, _, err := execute(t, "run", writeModel(t, exampleModel), "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestCacheCommands(t *testing.T) {
	resetState(t)
	path := writeModel(t, exampleModel)

	_, _, err := execute(t, "run", path)
	require.NoError(t, err)
	_, _, err = execute(t, "run", path, "--format", "json")
	require.NoError(t, err)

	out, _, err := execute(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Removed 0 expired reports")

	out, _, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Removed 2 cached reports")
}
