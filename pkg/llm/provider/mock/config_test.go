package mock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置加载测试
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadConfigFile_YAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	content := `
api_key: "secret"
delay: "100ms"
replies:
  - status: 429
    error: "quota"
  - text: "done"
    sources:
      - uri: "https://a"
        title: "A"
`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "100ms", cfg.Delay)
	require.Len(t, cfg.Replies, 2)
	assert.Equal(t, 429, cfg.Replies[0].Status)
	assert.Equal(t, "quota", cfg.Replies[0].Error)
	assert.Equal(t, "done", cfg.Replies[1].Text)
	assert.Equal(t, []Source{{URI: "https://a", Title: "A"}}, cfg.Replies[1].Sources)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.json")
	content := `{"delay": "50ms", "replies": [{"text": "hi"}]}`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "50ms", cfg.Delay)
	require.Len(t, cfg.Replies, 1)
	assert.Equal(t, "hi", cfg.Replies[0].Text)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadConfigFile("/nonexistent/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("不支持的格式", func(t *testing.T) {
		_, err := LoadConfigFromBytes([]byte("x"), "toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("YAML 语法错误", func(t *testing.T) {
		_, err := LoadConfigFromBytes([]byte("replies: [unclosed"), ".yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse YAML")
	})
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := LoadExampleConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Replies, 2)
	assert.Equal(t, 429, cfg.Replies[0].Status)
	assert.Contains(t, cfg.Replies[1].Text, "{{.PROMPT}}")
	assert.Len(t, cfg.Replies[1].Sources, 2)
}

func TestWithConfig_AppliesSettings(t *testing.T) {
	s := New(WithConfig(&Config{
		APIKey:  "k",
		Delay:   "1s",
		Replies: []Reply{{Text: "x"}},
	}))

	assert.Equal(t, "k", s.apiKey)
	assert.Equal(t, time.Second, s.delay)
	assert.Equal(t, []Reply{{Text: "x"}}, s.replies)

	// nil 配置保持默认
	d := New(WithConfig(nil))
	assert.Equal(t, []Reply{{Text: DefaultText}}, d.replies)
}

func TestWithConfigFile_StoresError(t *testing.T) {
	s := New(WithConfigFile("/invalid/path.yaml"))
	require.Error(t, s.err)
	assert.Contains(t, s.err.Error(), "load config file")
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板测试
// ═══════════════════════════════════════════════════════════════════════════

func TestRenderTemplate(t *testing.T) {
	t.Setenv("MOCK_TEST_VAR", "from-env")

	data := templateData("bakery", "strategist")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"纯文本", "hello", "hello"},
		{"提示词", "brief for {{.PROMPT}}", "brief for bakery"},
		{"系统指令", "as {{.SYSTEM}}", "as strategist"},
		{"环境变量", "{{.MOCK_TEST_VAR}}", "from-env"},
		{"默认值", `{{.MOCK_MISSING_VAR | default "fallback"}}`, "fallback"},
		{"env 函数", `{{env "MOCK_MISSING_VAR" "dflt"}}`, "dflt"},
		{"语法错误返回原文", "{{.PROMPT", "{{.PROMPT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.text, data))
		})
	}
}
