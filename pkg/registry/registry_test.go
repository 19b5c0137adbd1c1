// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryJSON = `{
  "version": "1.0.0",
  "lastUpdated": "2025-06-01",
  "activities": [
    {
      "id": "score-submission",
      "displayName": "Score Submission",
      "category": "assessment",
      "taskType": "score-submission",
      "implementationStatus": "implemented",
      "errorCodes": ["SCORING_FAILED"],
      "timeout": "10s",
      "retries": 0,
      "workflows": ["assessment-intake"]
    },
    {
      "id": "generate-report",
      "displayName": "Generate Report",
      "category": "report",
      "taskType": "generate-report",
      "implementationStatus": "implemented",
      "errorCodes": ["SUBMISSION_NOT_FOUND", "REPORT_RENDER_FAILED"],
      "timeout": "20s",
      "retries": 2,
      "workflows": ["report-delivery"]
    }
  ]
}`

func writeRegistryFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(registryJSON), 0o644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeRegistryFile(t))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	require.Len(t, reg.Activities, 2)
	assert.Equal(t, []string{"score-submission", "generate-report"}, reg.TaskTypes())
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFindByTaskType(t *testing.T) {
	reg, err := LoadRegistry(writeRegistryFile(t))
	require.NoError(t, err)

	activity, err := reg.FindByTaskType("generate-report")
	require.NoError(t, err)
	assert.Equal(t, "report", activity.Category)
	assert.Equal(t, 2, activity.Retries)
	assert.Contains(t, activity.Workflows, "report-delivery")

	_, err = reg.FindByTaskType("unknown-task")
	assert.Error(t, err)
}
