package validation

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError reports one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register installs the custom rules and json field naming on gin's binding
// engine. Call once at startup (and in test setup).
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("imageref", imageRef)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// imageRef accepts an absolute http(s) URL or a server-local path starting
// with "/". Empty strings are handled by omitempty on the tag.
func imageRef(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, "/") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FieldErrors flattens a binding error into per-field reports. Anything that
// is not a validator error (malformed JSON, wrong types) comes back as a
// single "body" entry.
func FieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: "invalid request body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldName(fe),
			Message: messageFor(fe),
		})
	}
	return out
}

// fieldName strips the outer struct name from the namespace, keeping the
// nested path: "PortfolioData.projects[0].github" -> "projects[0].github".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be an absolute URL"
	case "imageref":
		return "must be an absolute URL or a path starting with /"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}
