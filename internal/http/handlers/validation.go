package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
)

var validatorsOnce sync.Once

// registerValidators installs the custom binding tags on Gin's validator:
//
//	billingday  int in [1, 31]
//	isodate     string in YYYY-MM-DD form (empty passes; pair with required)
//
// Phone numbers use the built-in e164 tag.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("billingday", func(fl validator.FieldLevel) bool {
			d := fl.Field().Int()
			return d >= 1 && d <= 31
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, err := calendar.Parse(s)
			return err == nil
		})
	})
}

// jsonFieldName reports fields by their JSON name in validation messages.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// bindJSON binds the request body into dst. On failure it writes a 400 and
// returns false; validation failures list the offending fields.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fail(c, http.StatusBadRequest, ErrCodeValidation, validationMessage(ve))
		return false
	}
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
	return false
}

func validationMessage(ve validator.ValidationErrors) string {
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), describeTag(fe)))
	}
	sort.Strings(parts)
	return "invalid input: " + strings.Join(parts, "; ")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "billingday":
		return "must be between 1 and 31"
	case "isodate":
		return "must be a YYYY-MM-DD date"
	case "e164":
		return "must be an E.164 phone number"
	case "email":
		return "must be an email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag()
}
