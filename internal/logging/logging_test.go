package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmboard.log")
	l, closer, err := New("debug", path)
	require.NoError(t, err)
	l.WithField("item", "t1").Debug("dispatching reclassification")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "item=t1")
}

func TestNew_Stderr(t *testing.T) {
	l, closer, err := New("warn", "")
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
