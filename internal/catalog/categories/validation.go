package categories

import (
	"strings"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

func validate(c Category) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return httpx.Errf(httpx.ErrValidation, "Please provide category name")
	}
	if len(name) < 2 || len(name) > 100 {
		return httpx.Errf(httpx.ErrValidation, "Category name must be between 2 and 100 characters")
	}
	return nil
}
