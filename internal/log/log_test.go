package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_DisabledByDefault(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// No logger configured: calls are no-ops and must not panic.
	Debug(CatEncoding, "ignored", "k", "v")
	ErrorErr(CatRender, "ignored", nil)
}

func TestLog_WriterFormat(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	Debug(CatEncoding, "Detected encoding", "name", "UTF-8", "confidence", "High")

	out := buf.String()
	require.Contains(t, out, "[DEBUG] [encoding] Detected encoding name=UTF-8 confidence=High")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	Info(CatSyntax, "msg", "a", 1, "orphan")
	require.Contains(t, buf.String(), "a=1 orphan=<missing>")
}

func TestLog_MinLevelFilters(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)

	Debug(CatRender, "hidden")
	Info(CatRender, "hidden")
	Warn(CatRender, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [render] shown")
}

func TestLog_ErrorErr(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	InitWriter(&buf, LevelError)
	Warn(CatInput, "muted")
	require.Empty(t, buf.String())

	ErrorErr(CatInput, "read failed", os.ErrNotExist, "path", "x.txt")
	require.Contains(t, buf.String(), "[ERROR] [input] read failed path=x.txt error=file does not exist")
}

func TestLog_InitFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "cate.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Warn(CatConfig, "written to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[WARN] [config] written to file")
}

func TestLog_InitFileAlongsideWriter(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	path := filepath.Join(t.TempDir(), "cate.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	Debug(CatSyntax, "both sinks")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "both sinks")
	require.Contains(t, buf.String(), "both sinks")
}

func TestLog_InitFileError(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Init(filepath.Join(t.TempDir(), "missing", "cate.log"))
	require.Error(t, err)
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
