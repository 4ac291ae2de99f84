package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

func TestValidateAuditURL(t *testing.T) {
	assert.NoError(t, validateAuditURL("https://example.com"))
	assert.NoError(t, validateAuditURL("http://example.com/page"))
	assert.Error(t, validateAuditURL("example.com"))
	assert.Error(t, validateAuditURL(""))
	assert.Error(t, validateAuditURL("ftp://example.com"))
}

func TestWriteAuditResult_Report(t *testing.T) {
	state := *model.NewWorkflowState("https://example.com")
	state.Report = "## Priorities\n1. Fix the title"

	var buf bytes.Buffer
	require.NoError(t, writeAuditResult(&buf, state, false))

	assert.Equal(t, "## Priorities\n1. Fix the title\n", buf.String())
}

func TestWriteAuditResult_NoReport(t *testing.T) {
	state := *model.NewWorkflowState("https://example.com")
	state.Errors = []string{
		"PageAuditor Exception: boom",
		"Advisor Error: Empty report",
	}

	var buf bytes.Buffer
	require.NoError(t, writeAuditResult(&buf, state, false))

	out := buf.String()
	assert.Contains(t, out, "No report was generated.")
	assert.Contains(t, out, "  - PageAuditor Exception: boom\n")
	assert.Contains(t, out, "  - Advisor Error: Empty report\n")
}

func TestWriteAuditResult_JSON(t *testing.T) {
	state := *model.NewWorkflowState("https://example.com")
	state.Report = "done"

	var buf bytes.Buffer
	require.NoError(t, writeAuditResult(&buf, state, true))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "https://example.com", decoded["url"])
	assert.Equal(t, "done", decoded["report"])
	assert.Equal(t, []any{}, decoded["errors"])
}
