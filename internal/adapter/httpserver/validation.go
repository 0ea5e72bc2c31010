package httpserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/pkg/textx"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// syllabusRequiredMsg is the exact message clients of /map_skills rely on.
const syllabusRequiredMsg = "Syllabus text is required"

// mapSkillsRequest is the JSON body of POST /map_skills.
type mapSkillsRequest struct {
	Syllabus string `json:"syllabus" validate:"nonblank"`
	Role     string `json:"role" validate:"omitempty,max=200"`
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New(validator.WithRequiredStructEnabled())
		_ = vld.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return !textx.IsBlank(fl.Field().String())
		})
	})
	return vld
}

// validationDetails flattens validator errors into field -> tag.
func validationDetails(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return out
}

// syllabusMissing reports whether the syllabus field failed validation.
func syllabusMissing(details map[string]string) bool {
	_, ok := details["syllabus"]
	return ok
}
