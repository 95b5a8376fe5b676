package identity

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	clierrors "github.com/seaguntech/template-init/internal/errors"
)

var (
	npmNamePattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	githubPartPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	mailboxPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var targetValidator = newTargetValidator()

func newTargetValidator() *validator.Validate {
	v := validator.New()
	register := func(tag string, pattern *regexp.Regexp) {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("registering %s validation: %v", tag, err))
		}
	}
	register("npmname", npmNamePattern)
	register("githubpart", githubPartPattern)
	register("mailbox", mailboxPattern)
	return v
}

// Validate checks every target field against its format rule, in field
// order, and returns an Input CLIError naming the first offender.
func Validate(t Target) error {
	err := targetValidator.Struct(t)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return clierrors.Wrap(err, clierrors.Input)
	}
	return fieldError(validationErrors[0])
}

func fieldError(fieldErr validator.FieldError) *clierrors.CLIError {
	value := fmt.Sprint(fieldErr.Value())
	switch fieldErr.StructField() {
	case "ProjectName":
		return clierrors.NewInputError("projectName",
			fmt.Sprintf("Invalid project name %q. Use lowercase npm-style names.", value))
	case "Scope":
		return clierrors.NewInputError("scope",
			fmt.Sprintf("Invalid scope %q. Use lowercase npm scope without @.", value))
	case "Owner":
		return clierrors.NewInputError("owner", fmt.Sprintf("Invalid GitHub owner %q.", value))
	case "Repo":
		return clierrors.NewInputError("repo", fmt.Sprintf("Invalid GitHub repository %q.", value))
	case "Email":
		return clierrors.NewInputError("email", fmt.Sprintf("Invalid email address %q.", value))
	default:
		return clierrors.NewInputError(fieldErr.Field(),
			fmt.Sprintf("Invalid %s %q.", fieldErr.Field(), value))
	}
}
