package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--no-color"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestRootConverts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "eventos.csv")
	out := filepath.Join(dir, "calendario.ics")
	writeFile(t, in, "Assunto;Data\nDentist;20/05/2024\n;21/05/2024\nX;\nY;bad-date\n")

	stdout, stderr, err := execute(t, "-i", in, "-o", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "2 events written")
	assert.Contains(t, stderr, "invalid date")
	assert.FileExists(t, out)

	stdout, _, err = execute(t, "verify", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 events in")
	assert.Contains(t, stdout, "Dentist")
	assert.Contains(t, stdout, "Evento Importado")
}

func TestRootMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "calendario.ics")

	_, stderr, err := execute(t, "-i", filepath.Join(dir, "missing.csv"), "-o", out)
	require.Error(t, err)

	assert.Contains(t, stderr, "CRIT")
	assert.NoFileExists(t, out)
}

func TestRootRequiresInputFlag(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)
}

func TestRootRejectsBadDelimiter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "eventos.csv")
	writeFile(t, in, "Assunto;Data\n")

	_, _, err := execute(t, "-i", in, "-o", filepath.Join(dir, "x.ics"), "-d", ";;")
	assert.Error(t, err)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "csv2ics.yaml")
	out := filepath.Join(dir, "agenda.ics")

	_, _, err := execute(t, "init-config", cfgPath)
	require.NoError(t, err)
	require.FileExists(t, cfgPath)

	// A second init must not overwrite.
	_, _, err = execute(t, "init-config", cfgPath)
	assert.Error(t, err)

	writeFile(t, cfgPath, "delimiter: \",\"\ncol_subject: Title\noutput: "+out+"\n")

	in := filepath.Join(dir, "eventos.csv")
	writeFile(t, in, "Title,Data\nStandup,2024-05-20\n")

	stdout, _, err := execute(t, "--config", cfgPath, "-i", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 events written to "+out)

	// Flags override the file.
	semi := filepath.Join(dir, "semi.csv")
	writeFile(t, semi, "Title;Data\nReview;2024-05-21\n")
	other := filepath.Join(dir, "other.ics")

	stdout, _, err = execute(t, "--config", cfgPath, "-i", semi, "-d", ";", "-o", other)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 events written to "+other)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.ics")
	writeFile(t, bad, "not a calendar")

	_, stderr, err := execute(t, "verify", bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "CRIT")
}
