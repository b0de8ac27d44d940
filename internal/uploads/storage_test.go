package uploads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

func TestValidateImage(t *testing.T) {
	require.NoError(t, ValidateImage("photo.jpg", "image/jpeg", 1024))
	require.NoError(t, ValidateImage("PHOTO.PNG", "image/png", MaxImageSize))
	require.NoError(t, ValidateImage("anim.webp", "image/webp", 1024))

	err := ValidateImage("script.exe", "application/octet-stream", 1024)
	require.ErrorIs(t, err, httpx.ErrValidation)

	// Image extension with a lying content type.
	err = ValidateImage("photo.jpg", "text/html", 1024)
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = ValidateImage("photo.jpg", "image/jpeg", MaxImageSize+1)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "File too large. Maximum size is 5MB")
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("products", "Hero Shot.PNG")
	require.True(t, strings.HasPrefix(key, "products/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	// Two keys for the same filename never collide.
	require.NotEqual(t, key, ObjectKey("products", "Hero Shot.PNG"))
}
