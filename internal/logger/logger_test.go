package logger

import (
	"testing"

	"github.com/mattermost/mattermost/server/public/shared/mlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyo3287258/title-translator/internal/config"
)

func TestLevels(t *testing.T) {
	assert.NotContains(t, Levels("error"), mlog.LvlWarn)
	assert.Contains(t, Levels("warn"), mlog.LvlWarn)
	assert.NotContains(t, Levels("warn"), mlog.LvlInfo)
	assert.Contains(t, Levels("info"), mlog.LvlInfo)
	assert.NotContains(t, Levels("info"), mlog.LvlDebug)
	assert.Contains(t, Levels("debug"), mlog.LvlDebug)
	assert.Contains(t, Levels(""), mlog.LvlInfo)
}

func TestNew(t *testing.T) {
	log, err := New(&config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer log.Shutdown()

	log.Debug("logger ready", mlog.String("format", "json"))
	require.NoError(t, Configure(log, &config.LogConfig{Level: "error", Format: "plain", Output: "stderr"}))
}
