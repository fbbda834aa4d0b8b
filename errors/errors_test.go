package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeLocalVCS, "nothing to commit")

	require.Equal(t, CodeLocalVCS, err.Code())
	require.Equal(t, "nothing to commit", err.Message())
	require.Equal(t, "[LOCAL_VCS_ERROR] nothing to commit", err.Error())
	require.Nil(t, err.Unwrap())
	require.Nil(t, err.Context())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidInput, "invalid repository %q", "nope")
	require.Equal(t, `invalid repository "nope"`, err.Message())
}

func TestDefaultClassification(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{CodeCloneFailed, true},
		{CodeSyncFailed, true},
		{CodeLFSResolution, true},
		{CodeLFSUpload, true},
		{CodeNetwork, true},
		{CodeLocalVCS, false},
		{CodeFilesystem, false},
		{CodeUnauthorized, false},
		{ErrorCode("SOMETHING_NEW"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, New(tt.code, "x").Classification().IsRetryable())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		require.Nil(t, Wrap(nil, CodeSyncFailed, "pull failed"))
		require.Nil(t, Wrapf(nil, CodeSyncFailed, "pull %s", "failed"))
	})

	t.Run("standard cause uses code default", func(t *testing.T) {
		cause := stderrors.New("connection reset")
		err := Wrap(cause, CodeCloneFailed, "failed to clone")

		require.Equal(t, CodeCloneFailed, err.Code())
		require.True(t, err.Classification().IsRetryable())
		require.ErrorIs(t, err, cause)
		require.Equal(t, "[CLONE_FAILED] failed to clone: connection reset", err.Error())
	})

	t.Run("platform cause keeps classification", func(t *testing.T) {
		auth := New(CodeUnauthorized, "authentication required")
		err := Wrap(auth, CodeCloneFailed, "failed to clone")

		require.Equal(t, CodeCloneFailed, GetCode(err))
		require.False(t, IsRetryable(err))
		require.True(t, HasCode(err, CodeUnauthorized))
	})

	t.Run("wrapf formats", func(t *testing.T) {
		err := Wrapf(stderrors.New("x"), CodeSyncFailed, "push %s/%s", "acme", "notes")
		require.Equal(t, "push acme/notes", err.Message())
	})
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	ctx := map[string]interface{}{"repo": "acme/notes"}
	err := WrapWithContext(stderrors.New("x"), CodeSyncFailed, "push failed", ctx)
	ctx["repo"] = "changed"

	require.Equal(t, "acme/notes", err.Context()["repo"])

	got := err.Context()
	got["repo"] = "mutated"
	require.Equal(t, "acme/notes", err.Context()["repo"])
}

func TestWithContext(t *testing.T) {
	t.Run("adds to platform error", func(t *testing.T) {
		err := WithContext(New(CodeFilesystem, "mkdir failed"), "path", "/repos/acme")
		err = WithContext(err, "op", "mkdir")

		require.Equal(t, CodeFilesystem, err.Code())
		require.Equal(t, "/repos/acme", err.Context()["path"])
		require.Equal(t, "mkdir", err.Context()["op"])
	})

	t.Run("converts standard error", func(t *testing.T) {
		err := WithContext(stderrors.New("boom"), "k", "v")
		require.Equal(t, CodeUnknown, err.Code())
		require.Equal(t, "boom", err.Message())
	})

	t.Run("nil", func(t *testing.T) {
		require.Nil(t, WithContext(nil, "k", "v"))
	})
}

func TestGetCode(t *testing.T) {
	require.Equal(t, CodeUnknown, GetCode(nil))
	require.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	require.Equal(t, CodeLFSUpload, GetCode(New(CodeLFSUpload, "x")))
	require.False(t, HasCode(nil, CodeLFSUpload))
}

func TestFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusNotFound, CodeNotFound},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusConflict, CodeConflict},
		{http.StatusBadRequest, CodeInvalidInput},
		{http.StatusRequestEntityTooLarge, CodeInvalidInput},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusGatewayTimeout, CodeTimeout},
		{http.StatusServiceUnavailable, CodeUnavailable},
		{http.StatusBadGateway, CodeNetwork},
		{http.StatusTeapot, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, FromHTTPStatus(tt.status))
		})
	}
}

func TestWrapHTTPError(t *testing.T) {
	require.Nil(t, WrapHTTPError(nil, 500, "x"))

	err := WrapHTTPError(stderrors.New("bad gateway"), http.StatusBadGateway, "upload rejected")
	require.Equal(t, CodeNetwork, err.Code())
	require.True(t, err.Classification().IsRetryable())
	require.Equal(t, http.StatusBadGateway, err.Context()["status"])
}

func TestToJSON(t *testing.T) {
	require.Nil(t, ToJSON(nil))

	resp := ToJSON(WithContext(New(CodeSyncFailed, "push rejected"), "repo", "acme/notes"))
	require.Equal(t, "SYNC_FAILED", resp.Code)
	require.Equal(t, "push rejected", resp.Message)
	require.Equal(t, "RETRYABLE", resp.Classification)
	require.Equal(t, "acme/notes", resp.Context["repo"])

	resp = ToJSON(stderrors.New("plain"))
	require.Equal(t, "UNKNOWN", resp.Code)
	require.Equal(t, "plain", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
}
