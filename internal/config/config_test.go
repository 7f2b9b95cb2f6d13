package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remindCmd struct {
	NatsURL     string `name:"nats-url"`
	MetricsAddr string `name:"metrics-addr"`
	Once        bool
}

type testCLI struct {
	Config string `default:"default.db"`
	Debug  bool

	Remind remindCmd `cmd:""`
	List   struct{}  `cmd:""`
}

func parseWith(t *testing.T, yamlDoc string, args ...string) testCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0600))

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(YAML, path), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli
}

func TestYAML_TopLevelFlags(t *testing.T) {
	cli := parseWith(t, "config: /data/habits.json\ndebug: true\n", "list")
	assert.Equal(t, "/data/habits.json", cli.Config)
	assert.True(t, cli.Debug)
}

func TestYAML_CommandSection(t *testing.T) {
	doc := strings.Join([]string{
		"remind:",
		"  nats_url: nats://127.0.0.1:4222",
		"  metrics-addr: ':9464'",
		"  once: true",
	}, "\n")
	cli := parseWith(t, doc, "remind")
	assert.Equal(t, "nats://127.0.0.1:4222", cli.Remind.NatsURL)
	assert.Equal(t, ":9464", cli.Remind.MetricsAddr)
	assert.True(t, cli.Remind.Once)
}

func TestYAML_FlagsOverrideFile(t *testing.T) {
	cli := parseWith(t, "config: /data/from-file.db\n", "--config", "/data/from-flag.db", "list")
	assert.Equal(t, "/data/from-flag.db", cli.Config)
}

func TestYAML_EmptyAndMissingFile(t *testing.T) {
	cli := parseWith(t, "", "list")
	assert.Equal(t, "default.db", cli.Config)

	var fallback testCLI
	parser, err := kong.New(&fallback, kong.Configuration(YAML, filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"list"})
	require.NoError(t, err)
	assert.Equal(t, "default.db", fallback.Config)
}

func TestYAML_Malformed(t *testing.T) {
	_, err := YAML(strings.NewReader("config: [unterminated"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	values := map[string]any{
		"debug": true,
		"remind": map[string]any{
			"dry_run": true,
		},
	}

	raw, ok := lookup(values, []string{"remind"}, "dry-run")
	assert.True(t, ok)
	assert.Equal(t, true, raw)

	raw, ok = lookup(values, []string{"remind"}, "debug")
	assert.True(t, ok, "falls back to top level")
	assert.Equal(t, true, raw)

	_, ok = lookup(values, nil, "remind")
	assert.False(t, ok, "sections are not flag values")
}
