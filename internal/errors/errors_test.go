package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorIdentifiesFile(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3: mapping values are not allowed")
	err := NewParseError("content/pages/home.yaml", cause)

	assert.Contains(t, err.Error(), "content/pages/home.yaml")
	assert.Contains(t, err.Error(), ErrCodeParseFile)
	assert.Contains(t, err.Error(), "line 3")
	assert.True(t, IsParseError(err))
	assert.False(t, err.Recoverable)
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := NewIOError("read failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestReferenceCycleErrorNamesChain(t *testing.T) {
	err := NewReferenceCycleError([]string{"cta", "banner", "cta"})

	assert.Contains(t, err.Error(), "cta -> banner -> cta")
	assert.True(t, IsReferenceCycle(err))
	assert.False(t, IsParseError(err))
}

func TestUnknownNamespaceError(t *testing.T) {
	err := NewUnknownNamespaceError("widgets")

	assert.Contains(t, err.Error(), `"widgets"`)
	assert.True(t, IsUnknownNamespace(err))
}

func TestErrorCodeMatchingThroughWrapping(t *testing.T) {
	inner := NewParseError("shared/cta.yaml", errors.New("bad indent"))
	wrapped := fmt.Errorf("loading project root: %w", inner)

	require.True(t, HasErrorCode(wrapped, ErrCodeParseFile))
	assert.True(t, IsParseError(wrapped))
	assert.False(t, IsReferenceCycle(wrapped))
}

func TestWithContext(t *testing.T) {
	err := NewConfigError("modules dir missing").
		WithContext("setting", "modules_dir").
		WithContext("value", "./modules")

	assert.Equal(t, "modules_dir", err.Context["setting"])
	assert.Equal(t, "./modules", err.Context["value"])
}

func TestIsComparesTypeAndCode(t *testing.T) {
	a := NewUnknownNamespaceError("forms")
	b := NewUnknownNamespaceError("menus")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, NewConfigError("x"))
}
