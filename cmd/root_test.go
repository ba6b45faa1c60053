package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/rulekit/internal/config"
	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/presentation"
	"github.com/zjrosen/rulekit/internal/testutil"
)

// writeOfflineConfig writes a catalog and a config pointing at it, with
// the resource store disabled.
func writeOfflineConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	catalogPath := testutil.NewBuilder(t).WithStandardComponents().WriteCatalog(dir)

	configPath := filepath.Join(dir, "config.yaml")
	body := "server:\n  url: \"\"\n" +
		"registry:\n  catalog_file: " + catalogPath + "\n" +
		"resources:\n  db_path: \"\"\n" +
		"tracing:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))
	return configPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		viper.Reset()
		bindFlags()
		cfg = config.Config{}
		cfgFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSetDefaults_RegistersEveryKey(t *testing.T) {
	v := viper.New()
	setDefaults(v, config.Defaults())

	require.Equal(t, "http://localhost:8080", v.GetString("server.url"))
	require.Equal(t, 30*time.Second, v.GetDuration("server.timeout"))
	require.Equal(t, "127.0.0.1:7420", v.GetString("api.addr"))
	require.Equal(t, "debug", v.GetString("log.level"))
	require.True(t, v.IsSet("registry.catalog_file"))
	require.True(t, v.IsSet("tracing.sample_rate"))
}

func TestSetDefaults_EnvOverrides(t *testing.T) {
	t.Setenv("RULEKIT_SERVER_URL", "https://engine.example.com")
	t.Setenv("RULEKIT_REGISTRY_CACHE_TTL", "2m")

	v := viper.New()
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix("RULEKIT")
	v.SetEnvKeyReplacer(replacer())
	v.AutomaticEnv()

	var c config.Config
	require.NoError(t, v.Unmarshal(&c))
	require.Equal(t, "https://engine.example.com", c.Server.URL)
	require.Equal(t, 2*time.Minute, c.Registry.CacheTTL)
}

func TestComponentsList_FromCatalog(t *testing.T) {
	configPath := writeOfflineConfig(t)

	out, err := runCLI(t, "--config", configPath, "components:list")
	require.NoError(t, err)

	var got []presentation.ComponentDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 6)

	classes := make([]string, len(got))
	for i, c := range got {
		classes[i] = c.Clazz
	}
	require.Contains(t, classes, rulenode.RuleChainClazz)
	require.Contains(t, classes, testutil.ScriptFilterClazz)
	require.Contains(t, classes, testutil.LogActionClazz)
}

func TestComponentsGet_UnknownClassIsPlaceholder(t *testing.T) {
	configPath := writeOfflineConfig(t)

	out, err := runCLI(t, "--config", configPath, "components:get", "org.example.Missing")
	require.NoError(t, err)

	var got rulenode.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, rulenode.TypeUnknown, got.Type)
	require.Equal(t, "org.example.Missing", got.Clazz)
	require.Equal(t, "Unknown Rule Node class: org.example.Missing", got.ConfigurationDescriptor.NodeDefinition.Details)
}

func TestComponentsLinks_FromCatalog(t *testing.T) {
	configPath := writeOfflineConfig(t)

	out, err := runCLI(t, "--config", configPath, "components:links", testutil.ScriptFilterClazz)
	require.NoError(t, err)

	var got presentation.LinksDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.False(t, got.AllowCustom)
	require.Equal(t, []rulenode.Link{
		{Name: "False", Value: "False"},
		{Name: "True", Value: "True"},
	}, got.Links)

	out, err = runCLI(t, "--config", configPath, "components:links", testutil.SwitchFilterClazz)
	require.NoError(t, err)
	got = presentation.LinksDTO{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.True(t, got.AllowCustom)
	require.Empty(t, got.Links)
}

func TestResolve_RequiresTargets(t *testing.T) {
	configPath := writeOfflineConfig(t)

	_, err := runCLI(t, "--config", configPath, "resolve")
	require.ErrorContains(t, err, "provide rule chain ids or --chain")
}

func TestChainsList_RejectsNonPositiveLimit(t *testing.T) {
	configPath := writeOfflineConfig(t)
	t.Cleanup(func() { chainsLimit = 50 })

	_, err := runCLI(t, "--config", configPath, "chains:list", "--limit", "0")
	require.ErrorContains(t, err, "--limit must be positive")
}

func TestInvalidConfigFailsValidation(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  url: \"\"\nresources:\n  db_path: \"\"\n"), 0o600))

	_, err := runCLI(t, "--config", configPath, "components:list")
	require.ErrorContains(t, err, "invalid configuration")
	require.ErrorContains(t, err, "server.url is required")
}

func TestConfigInit_WritesTemplateOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Cleanup(func() { configInitForce = false })

	out, err := runCLI(t, "config:init", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Contains(t, parsed, "server")

	_, err = runCLI(t, "config:init", path)
	require.ErrorContains(t, err, "already exists")
}

func TestConfigInit_StarterCatalogIsUsable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(func() { configInitCatalog = false })

	out, err := runCLI(t, "config:init", "--catalog", path)
	require.NoError(t, err)
	catalogPath := filepath.Join(filepath.Dir(path), "catalog.yaml")
	require.Contains(t, out, "Wrote "+catalogPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	require.Equal(t, catalogPath, saved.Registry.CatalogFile)

	out, err = runCLI(t, "--config", path, "components:get", "org.thingsboard.rule.engine.action.TbLogNode")
	require.NoError(t, err)
	var got rulenode.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, rulenode.TypeAction, got.Type)
	require.Equal(t, "log", got.Name)
}

func TestConfigSetServer_UpdatesFile(t *testing.T) {
	configPath := writeOfflineConfig(t)
	t.Cleanup(func() {
		setServerURL = ""
		setServerToken = ""
		setServerTimeout = 30 * time.Second
	})

	_, err := runCLI(t, "--config", configPath, "config:set-server",
		"--url", "https://engine.example.com", "--token", "secret", "--timeout", "10s")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	require.Equal(t, "https://engine.example.com", saved.Server.URL)
	require.Equal(t, "secret", saved.Server.Token)
	require.Equal(t, 10*time.Second, saved.Server.Timeout)
	require.NotEmpty(t, saved.Registry.CatalogFile, "other sections are preserved")
}

func TestConfigSetServer_RejectsRelativeURL(t *testing.T) {
	configPath := writeOfflineConfig(t)
	t.Cleanup(func() { setServerURL = "" })

	_, err := runCLI(t, "--config", configPath, "config:set-server", "--url", "engine.local")
	require.ErrorContains(t, err, "absolute http(s) URL")
}
