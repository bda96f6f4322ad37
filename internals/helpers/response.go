package helper

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationErrorMap mengubah validator.ValidationErrors menjadi
// map field → daftar pesan, sesuai shape ErrorResponse.Errors.
func ValidationErrorMap(err error) map[string][]string {
	out := make(map[string][]string)

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = []string{"invalid input"}
		return out
	}

	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		out[field] = append(out[field], messageForTag(fe))
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "min":
		return fmt.Sprintf("minimal %s", fe.Param())
	case "max":
		return fmt.Sprintf("maksimal %s", fe.Param())
	case "gt":
		return fmt.Sprintf("harus lebih besar dari %s", fe.Param())
	case "gte":
		return fmt.Sprintf("harus lebih besar atau sama dengan %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("harus salah satu dari: %s", fe.Param())
	default:
		return fe.Tag()
	}
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	return JsonValidationError(c, ValidationErrorMap(err))
}
