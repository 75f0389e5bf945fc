package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type testLogging struct {
	suite.Suite
}

func (t *testLogging) TestSetup() {
	var buf bytes.Buffer
	logs := Setup(&buf, zerolog.InfoLevel, "json", false)

	logs.Log().Info().Msg("show me")
	t.Contains(buf.String(), "show me")

	logs.Log().Debug().Msg("find me")
	t.NotContains(buf.String(), "find me")
}

func (t *testLogging) TestSetLoggingKeepsContext() {
	var buf bytes.Buffer
	root := Setup(&buf, zerolog.InfoLevel, "json", false)

	l := NewLogging(func(c zerolog.Context) zerolog.Context {
		return c.Str("module", "show-me")
	}).SetLogging(root)

	l.Log().Info().Msg("with module")
	t.Contains(buf.String(), `"module":"show-me"`)
}

func (t *testLogging) TestNopByDefault() {
	l := NewLogging(nil)

	t.Equal(zerolog.Disabled, l.Log().GetLevel())
}

func (t *testLogging) TestOutput() {
	f := filepath.Join(t.T().TempDir(), "out.log")

	w, err := Output(f)
	t.NoError(err)

	logs := Setup(w, zerolog.InfoLevel, "json", false)
	logs.Log().Info().Msg("show me")

	// the diode writer flushes in background
	t.Eventually(func() bool {
		b, err := os.ReadFile(f)

		return err == nil && bytes.Contains(b, []byte("show me"))
	}, time.Second*2, time.Millisecond*50)

	c, ok := w.(io.Closer)
	t.True(ok)
	t.NoError(c.Close())
}

func TestLogging(t *testing.T) {
	suite.Run(t, new(testLogging))
}
