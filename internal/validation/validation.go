package validation

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Errors maps the JSON path of each invalid field to a message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return toJSONFieldName(fld.Name)
	}
	return name
}

// Struct checks the validate tags of s. Messages are looked up by field path
// first with indexes ("authors[0].id") and then without ("authors[].id").
func Struct(s any, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = buildMessage(field, fe, messages)
	}
	return out
}

// fieldPath drops the leading type name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

func buildMessage(field string, fe validator.FieldError, messages map[string]string) string {
	if msg, ok := messages[field]; ok {
		return msg
	}
	if msg, ok := messages[indexPattern.ReplaceAllString(field, "[]")]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	}
	return field + " is invalid (" + fe.Tag() + ")"
}

func toJSONFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// BindJSON decodes the request body into dst. Field rules are not checked
// here; the catalog service validates the documents it persists.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, Errors{
			"body": "invalid request body",
		})
		return false
	}

	return true
}
