package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in       string
		wantBase string
		wantExt  string
	}{
		{"photo.jpg", "photo", ".jpg"},
		{"my photo (1).PNG", "myphoto1", ".png"},
		{"résumé.webp", "resume", ".webp"},
		{"../../etc/passwd", "passwd", ""},
		{`C:\Users\me\cat.jpeg`, "cat", ".jpeg"},
		{"archive.tar.gz", "archivetar", ".gz"},
		{"2026-10-17T12:00:00.000Z-uploads.csv", "20261017T120000000Zuploads", ".csv"},
		{"", "", ""},
		{"???.png", "", ".png"},
	}

	for _, tt := range tests {
		base, ext := sanitizeFileName(tt.in)
		assert.Equal(t, tt.wantBase, base, tt.in)
		assert.Equal(t, tt.wantExt, ext, tt.in)
	}
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("0b8a2f2e-8c43-4d7f-9b1e-3b6a7e0a9c11")

	key := objectKey(FolderImages, id, "my cat.PNG")
	assert.Equal(t, "images/0b8a2f2e-8c43-4d7f-9b1e-3b6a7e0a9c11-mycat.png", key)
	assert.NotContains(t, key, "}")
}
