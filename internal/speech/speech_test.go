package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedRecognizer(t *testing.T) {
	var r Recognizer = Unsupported{}
	assert.ErrorIs(t, r.Start(), ErrUnsupported)
	assert.False(t, r.Supported())
	assert.False(t, r.Listening())
	assert.Empty(t, r.Transcript())
	r.Stop() // must be safe
}

func TestCaptureSession(t *testing.T) {
	c := NewCapture()
	assert.True(t, c.Supported())

	require.NoError(t, c.Start())
	assert.True(t, c.Listening())

	c.Append("hello")
	c.Append("world")
	assert.Equal(t, "hello world ", c.Transcript())

	c.Stop()
	assert.False(t, c.Listening())
	c.Stop() // idempotent

	// Text arriving after stop is dropped; transcript survives until the
	// next start.
	c.Append("late")
	assert.Equal(t, "hello world ", c.Transcript())
}

func TestCaptureStartResetsTranscript(t *testing.T) {
	c := NewCapture()
	require.NoError(t, c.Start())
	c.Append("first")
	c.Stop()

	require.NoError(t, c.Start())
	assert.Empty(t, c.Transcript())
	c.Append("second")
	assert.Equal(t, "second ", c.Transcript())
}

func TestCaptureStartWhileListeningIsNoop(t *testing.T) {
	c := NewCapture()
	require.NoError(t, c.Start())
	c.Append("keep")
	require.NoError(t, c.Start())
	assert.Equal(t, "keep ", c.Transcript())
}
