package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat.jpg", "cat.jpg"},
		{"My Summer  Photo.jpeg", "My_Summer_Photo.jpeg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\Desktop\beach.png`, "beach.png"},
		{".bashrc", "bashrc"},
		{"__init__.py", "init__.py"},
		{"café crème.jpg", "cafe_creme.jpg"},
		{"photo (1).jpg", "photo_1.jpg"},
		{"日本.png", "png"},
		{"..", ""},
		{"", ""},
		{"???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestStorageFilename(t *testing.T) {
	assert.Equal(t, "alice_2024-05-01_cat.jpg", StorageFilename("alice", "2024-05-01", "cat.jpg"))
	assert.Equal(t, StorageFilename("alice", "2024-05-01", "cat.jpg"), StorageFilename("alice", "2024-05-01", "cat.jpg"))
	assert.NotEqual(t, StorageFilename("alice", "2024-05-01", "cat.jpg"), StorageFilename("bob", "2024-05-01", "cat.jpg"))
	assert.NotEqual(t, StorageFilename("alice", "2024-05-01", "cat.jpg"), StorageFilename("alice", "2024-05-02", "cat.jpg"))
	assert.Equal(t, "", StorageFilename("alice", "2024-05-01", "///"))
}

func TestStorageFilename_UnsafeUserID(t *testing.T) {
	a := StorageFilename("user@example.com", "2024-05-01", "cat.jpg")
	b := StorageFilename("user@example.org", "2024-05-01", "cat.jpg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_2024-05-01_cat.jpg"))
	assert.NotContains(t, a, "@")
	assert.Equal(t, SanitizeFilename(a), a, "result must already be safe")
}

func TestStorageFilename_LongNameKeepsExtension(t *testing.T) {
	got := StorageFilename("alice", "2024-05-01", strings.Repeat("x", 500)+".jpg")

	assert.True(t, strings.HasSuffix(got, ".jpg"))
	assert.LessOrEqual(t, len(got), len("alice_2024-05-01_")+maxNameBytes)
}

func TestStorageFilename_UserPrefixIsUnambiguous(t *testing.T) {
	a := StorageFilename("alice", "2024-05-01", "2024-05-02_x.jpg")
	b := StorageFilename("alice_2024-05-01", "2024-05-02", "x.jpg")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "alice_2024-05-01_2024-05-02_x.jpg", a)

	prefix, _, ok := strings.Cut(b, "_")
	require.True(t, ok)
	assert.NotContains(t, prefix, "_")
	assert.True(t, strings.HasSuffix(b, "_2024-05-02_x.jpg"))

	hashed := userPrefix("user@example.com")
	assert.NotEqual(t, userPrefix(hashed), hashed, "an id shaped like a hash must not reuse it")
	assert.Equal(t, "bob", userPrefix("bob"))
	assert.Equal(t, "u1", userPrefix("u1"))
}
