package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notewell/curator/pkg/errors"
)

func TestAmbiguousMatchError(t *testing.T) {
	err := errors.NewAmbiguousMatchError("OCPBUGS-123", 2)

	assert.True(t, errors.IsAmbiguous(err))
	assert.True(t, stderrors.Is(err, errors.ErrAmbiguous))
	assert.Contains(t, err.Error(), "OCPBUGS-123")
	assert.Contains(t, err.Error(), "2")
}

func TestMalformedRecordError(t *testing.T) {
	cause := stderrors.New("parsing time")
	err := &errors.MalformedRecordError{
		Key:   "OCPBUGS-7",
		Field: "created",
		Value: "yesterday",
		Err:   cause,
	}

	assert.True(t, errors.IsMalformedRecord(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "OCPBUGS-7")
	assert.Contains(t, err.Error(), `"yesterday"`)
}

func TestNotFoundError(t *testing.T) {
	err := errors.NewNotFoundError("note", "taskTodoRoot")

	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "note taskTodoRoot not found", err.Error())
}

func TestAPIError(t *testing.T) {
	err := &errors.APIError{
		Service:    "jira",
		StatusCode: 503,
		Endpoint:   "/rest/api/2/search",
		Message:    "service unavailable",
	}

	assert.Contains(t, err.Error(), "jira")
	assert.Contains(t, err.Error(), "503")
}

func TestWrapHelpersNil(t *testing.T) {
	assert.NoError(t, errors.WrapParse("html", "note content", nil))
	assert.NoError(t, errors.WrapResource("create", "note", "", nil))
	assert.NoError(t, errors.WrapAPI("trilium", 0, nil))
}

func TestWrapResource(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.WrapResource("flush", "note", "abc123", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to flush note abc123")
}
