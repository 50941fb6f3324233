package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddieg26/gob/internal/config"
	"github.com/Eddieg26/gob/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.LoadDefaults()
	cfg.Root = t.TempDir()
	return cfg
}

func TestExecuteShowsHelpWithoutArgs(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewBasic()

	// cobra reads os.Args when no args are set; replace the test binary's
	// own flags so Execute really runs with no arguments.
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"gob"}

	err := Execute(context.Background(), cfg, logger)
	require.NoError(t, err)
}

func TestNewRootCommandHasImportSubcommand(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewBasic()

	cmd := newRootCommand(cfg, logger)
	assert.Equal(t, "gob", cmd.Use)

	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "import" {
			found = true
		}
	}
	assert.True(t, found, "expected an import subcommand")
}

func TestRootCommandHelp(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewBasic()
	cmd := newRootCommand(cfg, logger)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Available Commands:")
	assert.Contains(t, buf.String(), "import")
}
