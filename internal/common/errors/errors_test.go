package errors

import (
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"business error", NewPostingNotMatchableError("7", "RESEARCH"), "POSTING_NOT_MATCHABLE", 0},
		{"technical error", NewQueryExecutionFailedError("ListStudents", fmt.Errorf("boom")), "QUERY_EXECUTION_FAILED", 3},
		{"timeout", NewSearchTimeoutError("students"), "SEARCH_TIMEOUT", 2},
		{"internal", NewInternalError(fmt.Errorf("nil map")), "INTERNAL_ERROR", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, b.Code)
			assert.Equal(t, tt.wantRetries, b.Retries)
			vars := b.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	e := NewStudentNotFoundError("s9").WithMetadata("postingId", "3")
	vars := ConvertToBPMNError(e).ToErrorVariables()
	assert.Equal(t, "3", vars["postingId"])
}

func TestAsStandardError(t *testing.T) {
	orig := NewInterviewNotFoundError("12")
	wrapped := fmt.Errorf("update: %w", orig)
	assert.Same(t, orig, AsStandardError(wrapped))

	plain := AsStandardError(fmt.Errorf("plain"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "plain", plain.Details)
}

func TestRemainingRetries(t *testing.T) {
	b := &BPMNError{Retries: 3}
	assert.Equal(t, int32(2), RemainingRetries(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 3}}, b))
	assert.Equal(t, int32(0), RemainingRetries(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 1}}, b))
	assert.Equal(t, int32(3), RemainingRetries(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 10}}, b))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodePostingNotMatchable))
	assert.Equal(t, "INTERVIEW", GetErrorCategory(ErrCodeInvalidInterviewAction))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeStudentNotFound))
}
