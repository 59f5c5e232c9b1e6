package registration

import (
	"strconv"
	"strings"

	"github.com/hexagonlabs/hexagon/pkg/forms"
)

// Wizard steps.
const (
	StepAccount   = 1
	StepInterests = 2
	StepRateCards = 3
	StepReview    = 4
	StepComplete  = 5

	FirstStep = StepAccount
	LastStep  = StepComplete
)

// MinPasswordLength is the minimum password length in characters.
const MinPasswordLength = 8

// Localizer resolves message keys to user-facing text.
type Localizer interface {
	T(key string, args ...any) string
}

func msg(l Localizer, key string, args ...any) string {
	if l == nil {
		return key
	}
	return l.T(key, args...)
}

// CardFieldKey is the error key of field on rate card i.
func CardFieldKey(i int, field string) string {
	return "rateCards." + strconv.Itoa(i) + "." + field
}

func splitCardFieldKey(key string) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, "rateCards.")
	if !ok {
		return 0, "", false
	}
	idx, field, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, "", false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return 0, "", false
	}
	return i, field, true
}

// ValidateStep checks the fields owned by step and returns the failures.
// Steps 4 and 5 are always valid.
func ValidateStep(step int, f *Form, l Localizer) forms.Errors {
	errs := forms.NewErrors()

	switch step {
	case StepAccount:
		errs.Check(FieldFirstName, f.FirstName,
			forms.WithMessage(forms.Required(), msg(l, "register.errors.firstName")))
		errs.Check(FieldLastName, f.LastName,
			forms.WithMessage(forms.Required(), msg(l, "register.errors.lastName")))
		errs.Check(FieldEmail, f.Email,
			forms.WithMessage(forms.Required(), msg(l, "register.errors.emailRequired")),
			forms.WithMessage(forms.Email(), msg(l, "register.errors.emailInvalid")))
		errs.Check(FieldPassword, f.Password,
			forms.WithMessage(forms.NonEmpty(), msg(l, "register.errors.passwordRequired")),
			forms.WithMessage(forms.MinLength(MinPasswordLength), msg(l, "register.errors.passwordLength", MinPasswordLength)))
		errs.Check(FieldConfirmPassword, f.ConfirmPassword,
			forms.WithMessage(forms.EqualTo(f.Password), msg(l, "register.errors.passwordMismatch")))
		roles := make([]string, len(Roles))
		for i, r := range Roles {
			roles[i] = string(r)
		}
		errs.Check(FieldRole, string(f.Role),
			forms.WithMessage(forms.OneOf(roles...), msg(l, "register.errors.role")))

	case StepInterests:
		if len(f.Interests) == 0 && strings.TrimSpace(f.CustomInterest) == "" {
			errs.Set(FieldCustomInterest, msg(l, "register.errors.interests"))
		}

	case StepRateCards:
		// Only the first card gates the step.
		if len(f.RateCards) == 0 {
			errs.Set(CardFieldKey(0, CardPlatform), msg(l, "register.errors.platform"))
			break
		}
		card := f.RateCards[0]
		errs.Check(CardFieldKey(0, CardPlatform), string(card.Platform),
			forms.WithMessage(forms.Required(), msg(l, "register.errors.platform")))
		errs.Check(CardFieldKey(0, CardContentType), string(card.ContentType),
			forms.WithMessage(forms.Required(), msg(l, "register.errors.contentType")))
		errs.Check(CardFieldKey(0, CardBasePrice), card.BasePrice,
			forms.WithMessage(forms.GreaterThan(0), msg(l, "register.errors.basePrice")))
	}

	return errs
}
