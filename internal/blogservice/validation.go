package blogservice

import (
	"github.com/oluseyi-dev/chapterpress/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
}

func validateState(v *common.Validator, state BlogState) {
	v.Check(state == StateDraft || state == StatePublished, "state", "must be either draft or published")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
