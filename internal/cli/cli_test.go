package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a project directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	// Flag values outlive a single Execute.
	taskPriority, taskDescription, taskStatus, taskProject, taskDue = "medium", "", "", "", ""
	projectDescription, projectStatus, projectCustomer = "", "", ""
	customerEmail, customerCompany, customerType = "", "", ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".crmboard")
	_, err := run(t, dir, "init")
	require.NoError(t, err)
	return dir
}

// createdID extracts the short id from "Created <kind> <id>: ...".
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3, out)
	return strings.TrimSuffix(fields[2], ":")
}

func TestInit(t *testing.T) {
	dir := initProject(t)

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "crmboard.db"))
	assert.NoError(t, err)

	_, err = run(t, dir, "init")
	assert.ErrorContains(t, err, "already initialized")
}

func TestNotInitialized(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "missing"), "board")
	assert.ErrorContains(t, err, "not initialized")
}

func TestMoveTask(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, dir, "task", "create", "Send", "proposal")
	require.NoError(t, err)
	id := createdID(t, out)

	out, err = run(t, dir, "move", "tasks", id, "in_review")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved Send proposal: To Do → In Review")

	out, err = run(t, dir, "task", "list", "in_review")
	require.NoError(t, err)
	assert.Contains(t, out, "Send proposal")

	out, err = run(t, dir, "log", "task", id)
	require.NoError(t, err)
	assert.Contains(t, out, "reclassified")
	assert.Contains(t, out, "in_review")
}

func TestMoveSameColumn(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, dir, "project", "create", "Website")
	require.NoError(t, err)
	id := createdID(t, out)

	out, err = run(t, dir, "move", "projects", id, "planning")
	require.NoError(t, err)
	assert.Contains(t, out, "already in Planning")

	out, err = run(t, dir, "log", "projects", id)
	require.NoError(t, err)
	assert.NotContains(t, out, "reclassified")
}

func TestMoveErrors(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, dir, "task", "create", "x")
	require.NoError(t, err)
	id := createdID(t, out)

	_, err = run(t, dir, "move", "tasks", id, "archived")
	assert.ErrorContains(t, err, "no column")

	_, err = run(t, dir, "move", "invoices", id, "done")
	assert.Error(t, err)

	_, err = run(t, dir, "move", "tasks", "ffffffff", "done")
	assert.ErrorContains(t, err, "not found")
}

func TestCustomerUnknownTypeLandsInOther(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "customer", "create", "Globex", "--type", "enterprise")
	require.NoError(t, err)
	out, err := run(t, dir, "customer", "create", "Initech", "--type", "Client")
	require.NoError(t, err)
	initech := createdID(t, out)

	out, err = run(t, dir, "customer", "list", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "[enterprise]")
	assert.NotContains(t, out, "Initech")

	out, err = run(t, dir, "customer", "list", "client")
	require.NoError(t, err)
	assert.Contains(t, out, "Initech")

	out, err = run(t, dir, "move", "customers", initech, "prospect")
	require.NoError(t, err)
	assert.Contains(t, out, "Clients → Prospects")

	out, err = run(t, dir, "board", "customers")
	require.NoError(t, err)
	assert.Contains(t, out, "OTHER")
	assert.Contains(t, out, "PROSPECTS")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Initech")
}

func TestStatus(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "task", "create", "a", "--status", "blocked")
	require.NoError(t, err)

	out, err := run(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "tasks: 1 total")
	assert.Contains(t, out, "blocked:")
	assert.Contains(t, out, "customers: 0 total")
}
