// Package validation checks user-supplied form fields before they are written.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field identifies a validated form field.
type Field string

const (
	Title    Field = "title"
	Content  Field = "content"
	Comment  Field = "comment"
	Username Field = "username"
	Bio      Field = "bio"
)

type rule struct {
	label string
	tags  string
}

var rules = map[Field]rule{
	Title:    {label: "Title", tags: "min=5,max=200"},
	Content:  {label: "Content", tags: "min=20,max=5000"},
	Comment:  {label: "Comment", tags: "min=3,max=1000"},
	Username: {label: "Username", tags: "min=3,max=30,username"},
	Bio:      {label: "Bio", tags: "max=500"},
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register username rule: %v", err))
	}
	return v
}

// Error is a failed field check. Message names the first rule the value broke.
type Error struct {
	Field   Field
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errors collects one Error per failed field.
type Errors []*Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, ", ")
}

// Check trims raw and validates it as field. It returns the trimmed value,
// or an *Error describing the first violated rule.
func Check(field Field, raw string) (string, error) {
	r, ok := rules[field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", field)
	}

	value := strings.TrimSpace(raw)
	if err := validate.Var(value, r.tags); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "", &Error{Field: field, Message: message(r.label, verrs[0])}
		}
		return "", fmt.Errorf("validate %s: %w", field, err)
	}
	return value, nil
}

// ProfileInput is a validated profile form.
type ProfileInput struct {
	Username string
	Bio      string
}

// CheckProfile validates both profile fields. On failure the returned Errors
// holds one message per failed field, joined with ", " by Error().
func CheckProfile(username, bio string) (ProfileInput, error) {
	var errs Errors
	var in ProfileInput

	u, err := Check(Username, username)
	if err != nil {
		var ve *Error
		if !errors.As(err, &ve) {
			return ProfileInput{}, err
		}
		errs = append(errs, ve)
	}
	in.Username = u

	b, err := Check(Bio, bio)
	if err != nil {
		var ve *Error
		if !errors.As(err, &ve) {
			return ProfileInput{}, err
		}
		errs = append(errs, ve)
	}
	in.Bio = b

	if len(errs) > 0 {
		return ProfileInput{}, errs
	}
	return in, nil
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "username":
		return fmt.Sprintf("%s can only contain letters, numbers, underscores, and hyphens", label)
	}
	return fmt.Sprintf("%s is invalid", label)
}
