package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fepegar/dcm2niiw/internal/config"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestResolveBinary_Precedence(t *testing.T) {
	t.Setenv("DCM2NIIX_BIN", "/env/dcm2niix")

	bin, err := resolveBinary("/flag/dcm2niix")
	require.NoError(t, err)
	assert.Equal(t, "/flag/dcm2niix", bin, "explicit path wins over env")

	bin, err = resolveBinary("")
	require.NoError(t, err)
	assert.Equal(t, "/env/dcm2niix", bin)
}

func TestResolveBinary_NotFound(t *testing.T) {
	t.Setenv("DCM2NIIX_BIN", "")
	t.Setenv("PATH", t.TempDir())

	_, err := resolveBinary("")
	assert.ErrorContains(t, err, "dcm2niix not found")
}

func TestCheckInFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkInFolder(dir))

	assert.Error(t, checkInFolder(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "file.dcm")
	require.NoError(t, os.WriteFile(file, []byte("DICM"), 0o644))
	assert.ErrorContains(t, checkInFolder(file), "not a directory")
}

func TestExecute_MutuallyExclusiveOutputs(t *testing.T) {
	t.Setenv("DCM2NIIW_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	err := runCommand(t,
		"--bin", "/no/such/dcm2niix",
		"--out-folder", "/tmp/a",
		"--out-file", "/tmp/b.nii.gz",
		t.TempDir(),
	)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestExecute_UnknownExportFormat(t *testing.T) {
	t.Setenv("DCM2NIIW_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	err := runCommand(t,
		"--bin", "/no/such/dcm2niix",
		"--export-format", "tiff",
		t.TempDir(),
	)
	assert.ErrorContains(t, err, "unknown export format")
}

func TestExecute_MissingInputFolder(t *testing.T) {
	t.Setenv("DCM2NIIW_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	err := runCommand(t, "--bin", "/no/such/dcm2niix")
	assert.ErrorContains(t, err, "missing IN_FOLDER")
}

func TestApplyConfigDefaults_FlagsWin(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Set("depth", "1"))

	compress := true
	level := 6
	depth := 1
	exportFormat := "NIfTI"
	filenameFormat := "%f"
	writeBehavior := "overwrite"
	logLevel := "debug"
	binPath := ""

	fileCompress := false
	fileDepth := 9
	cfg := config.File{
		Compress:      &fileCompress,
		Depth:         &fileDepth,
		ExportFormat:  "MGH",
		WriteBehavior: "skip",
		Binary:        "/opt/dcm2niix",
	}
	applyConfigDefaults(cmd, cfg, &compress, &level, &depth,
		&exportFormat, &filenameFormat, &writeBehavior, &logLevel, &binPath)

	assert.False(t, compress, "unset flag takes config value")
	assert.Equal(t, 1, depth, "explicitly set flag must not be overridden")
	assert.Equal(t, "MGH", exportFormat)
	assert.Equal(t, "skip", writeBehavior)
	assert.Equal(t, "/opt/dcm2niix", binPath)
}

func TestFlagsStopAtInputFolder(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--adjacent", "/data", "--crop", "y"}))
	assert.Equal(t, []string{"/data", "--crop", "y"}, cmd.Flags().Args(),
		"tokens after the positional must stay verbatim for passthrough")
}
