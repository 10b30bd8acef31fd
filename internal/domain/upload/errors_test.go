package upload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("upload image: %w", &Error{Kind: KindInvalidFileFormat, Op: "UploadImage"})

	assert.True(t, errors.Is(err, ErrInvalidFileFormat))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrIO))
	assert.Equal(t, KindInvalidFileFormat, KindOf(err))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestIOError(t *testing.T) {
	require.NoError(t, IOError("op", nil))

	cause := errors.New("connection reset")
	err := IOError("FetchUploads", cause)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "FetchUploads: i/o error: connection reset", err.Error())

	// an already classified error keeps its kind
	v := ValidationError("op", map[string]string{"page": "bad"})
	assert.Equal(t, KindValidation, KindOf(IOError("other", v)))
}

func TestError_Message(t *testing.T) {
	err := ValidationError("ListUploads", map[string]string{"sortBy": "bad", "page": "bad"})
	assert.Equal(t, "ListUploads: validation error; page: bad; sortBy: bad", err.Error())
	assert.Equal(t, "invalid file format", (&Error{Kind: KindInvalidFileFormat}).Error())
}
