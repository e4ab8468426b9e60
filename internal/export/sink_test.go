package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSaverWritesFile(t *testing.T) {
	dir := t.TempDir()
	saver := DirSaver{Dir: filepath.Join(dir, "plans")}

	path, err := saver.Save("AI_Day_Plan_Acme.md", MIMEMarkdown, []byte("# plan"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plans", "AI_Day_Plan_Acme.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# plan", string(data))
}

func TestDirSaverDefaultsToCurrentDir(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	path, err := DirSaver{}.Save("out.md", MIMEMarkdown, []byte("x"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}
