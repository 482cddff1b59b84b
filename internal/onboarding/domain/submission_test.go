package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionHappyPath(t *testing.T) {
	ctx := context.Background()
	s := NewSubmission("g-1")
	assert.Equal(t, SubmissionPending, s.Status)

	require.NoError(t, s.StartUpload(ctx))
	assert.Equal(t, SubmissionUploading, s.Status)

	require.NoError(t, s.CommitProfile(ctx))
	assert.Equal(t, SubmissionProfileCommitted, s.Status)

	require.NoError(t, s.CommitVerification(ctx))
	assert.Equal(t, SubmissionVerificationCommitted, s.Status)

	require.NoError(t, s.Complete(ctx))
	assert.Equal(t, SubmissionCompleted, s.Status)
	assert.NotNil(t, s.CompletedAt)
}

func TestSubmissionOrderEnforced(t *testing.T) {
	ctx := context.Background()

	// 审核记录不能先于档案落库
	s := NewSubmission("g-1")
	require.NoError(t, s.StartUpload(ctx))
	require.Error(t, s.CommitVerification(ctx))
	assert.Equal(t, SubmissionUploading, s.Status)

	// 未上传不能直接落库档案
	s = NewSubmission("g-2")
	require.Error(t, s.CommitProfile(ctx))
	assert.Equal(t, SubmissionPending, s.Status)
}

func TestSubmissionFailFromAnyActiveState(t *testing.T) {
	ctx := context.Background()

	s := NewSubmission("g-1")
	require.NoError(t, s.Fail(ctx, "upload refused"))
	assert.Equal(t, SubmissionFailed, s.Status)
	assert.Equal(t, "upload refused", s.FailureReason)

	s = NewSubmission("g-2")
	require.NoError(t, s.StartUpload(ctx))
	require.NoError(t, s.CommitProfile(ctx))
	require.NoError(t, s.Fail(ctx, "verification upsert failed"))
	assert.Equal(t, SubmissionFailed, s.Status)
}

func TestSubmissionTerminalStatesReject(t *testing.T) {
	ctx := context.Background()

	s := NewSubmission("g-1")
	require.NoError(t, s.StartUpload(ctx))
	require.NoError(t, s.CommitProfile(ctx))
	require.NoError(t, s.CommitVerification(ctx))
	require.NoError(t, s.Complete(ctx))

	require.Error(t, s.Fail(ctx, "late failure"))
	require.Error(t, s.StartUpload(ctx))
	assert.Equal(t, SubmissionCompleted, s.Status)
}
