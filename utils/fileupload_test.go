package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile(t *testing.T) {
	content := []byte("fake image content")

	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{name: "png accepted", filename: "counter.png", size: int64(len(content))},
		{name: "jpg accepted", filename: "site.jpg", size: int64(len(content))},
		{name: "jpeg accepted", filename: "site.JPEG", size: int64(len(content))},
		{name: "oversized rejected", filename: "huge.png", size: 11 * 1024 * 1024, expectedCode: "FILE_TOO_LARGE"},
		{name: "pdf rejected", filename: "invoice.pdf", size: int64(len(content)), expectedCode: "INVALID_FILE_FORMAT"},
		{name: "no extension rejected", filename: "photo", size: int64(len(content)), expectedCode: "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := createTestFileHeader(tt.filename, tt.size, content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, tt.expectedCode, fileErr.Code)
		})
	}
}

func TestContentTypeForFile(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeForFile("a.png"))
	assert.Equal(t, "image/png", ContentTypeForFile("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentTypeForFile("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForFile("a.jpeg"))
}
