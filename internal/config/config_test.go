package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUMMARY_PROVIDER", "none")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "0 8 * * *", cfg.Schedule)
	assert.Equal(t, 48*time.Hour, cfg.ImageCacheTTL)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUMMARY_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RETRY_DELAY", "250ms")
	t.Setenv("MAX_SUMMARY_REQUESTS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.SummaryProvider)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 4, cfg.MaxSummaryRequests)
}

func TestValidate(t *testing.T) {
	base := Config{SummaryProvider: "none", DatabaseDriver: "sqlite", Schedule: "@daily"}
	require.NoError(t, base.Validate())

	c := base
	c.TelegramToken = "t"
	assert.Error(t, c.Validate())

	c = base
	c.SummaryProvider = "gemini"
	assert.Error(t, c.Validate())

	c = base
	c.DatabaseDriver = "mysql"
	assert.Error(t, c.Validate())
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai_focus:
  name: AI Focus
  hours: 24
  top_articles: 20
  categories: [ai_headlines, tools_platforms, nonsense]
  weights: ai_focus
  precision: true
everything:
  categories: [all]
`), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai_focus", "default", "everything"}, presets.Names())

	ai, err := presets.Get("ai_focus")
	require.NoError(t, err)
	assert.Equal(t, 20, ai.TopArticles)
	assert.Equal(t, 10, ai.OtherMin)
	assert.True(t, ai.Precision)
	w, ok := ai.Window()
	assert.True(t, ok)
	assert.Equal(t, 24*time.Hour, w)
	assert.Equal(t, []string{"ai_headlines", "tools_platforms"},
		ai.ActiveCategories([]string{"ai_headlines", "tools_platforms", "cybersecurity"}))

	all, err := presets.Get("everything")
	require.NoError(t, err)
	assert.Equal(t, "everything", all.Name)
	assert.Nil(t, all.ActiveCategories([]string{"ai_headlines"}))
	_, ok = all.Window()
	assert.False(t, ok)

	_, err = presets.Get("missing")
	assert.Error(t, err)
}

func TestLoadPresetsMissingFile(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, presets.Names())
}

func TestShippedPresets(t *testing.T) {
	presets, err := LoadPresets(filepath.Join("..", "..", "configs", "presets.yaml"))
	require.NoError(t, err)
	assert.Subset(t, presets.Names(), []string{"default", "ai_focus", "finance", "security", "science", "quick_update"})

	quick, err := presets.Get("quick_update")
	require.NoError(t, err)
	d, ok := quick.Window()
	assert.True(t, ok)
	assert.Equal(t, 6*time.Hour, d)

	def, err := presets.Get("default")
	require.NoError(t, err)
	_, ok = def.Window()
	assert.False(t, ok)
	assert.Nil(t, def.ActiveCategories([]string{"ai_headlines"}))
}
