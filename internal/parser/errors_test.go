package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "file and message",
			err:  ParseFailure("src/Main.pas", "no unit declaration"),
			want: "parse: src/Main.pas: no unit declaration",
		},
		{
			name: "file and cause",
			err:  IOError("src/Main.pas", fs.ErrPermission),
			want: "io: src/Main.pas: permission denied",
		},
		{
			name: "message only",
			err:  &Error{Kind: KindConfig, Message: "unknown encoding"},
			want: "config: unknown encoding",
		},
		{
			name: "cause only",
			err:  &Error{Kind: KindCancelled, Err: errors.New("context canceled")},
			want: "cancelled: context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := IOError("a.pas", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	wrapped := fmt.Errorf("scan: %w", err)
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Unsupported("readme.txt"))

	assert.True(t, IsKind(err, KindUnsupported))
	assert.False(t, IsKind(err, KindIO))
	assert.False(t, IsKind(errors.New("plain"), KindIO))
}
