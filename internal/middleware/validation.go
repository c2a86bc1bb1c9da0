package middleware

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidators installs the enum validators used by query binding tags and
// reports fields by their query parameter name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return model.Gender(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
			return model.Source(fl.Field().String()).Valid()
		})
	})
}

var validationMessages = map[string]string{
	"min":    "must be at least %s",
	"max":    "must be at most %s",
	"oneof":  "must be one of [%s]",
	"gender": "must be one of [male female other]",
	"source": "must be one of [in_person phone instagram tiktok google website]",
}

// BindingError converts a ShouldBindQuery failure into a 400 naming each bad parameter.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.BadRequest("invalid query parameters", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		format, ok := validationMessages[e.Tag()]
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
			continue
		}
		if strings.Contains(format, "%s") {
			msgs = append(msgs, e.Field()+" "+fmt.Sprintf(format, e.Param()))
		} else {
			msgs = append(msgs, e.Field()+" "+format)
		}
	}
	sort.Strings(msgs)
	return errors.BadRequest("invalid query parameters: "+strings.Join(msgs, "; "), err)
}
