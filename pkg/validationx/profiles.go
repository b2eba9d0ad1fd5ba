package validationx

import (
	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
)

var (
	EmailRules = []validation.Rule{
		validation.Required,
		is.Email,
		validation.Length(5, 255),
		EmailDomain,
	}

	UsernameRules = []validation.Rule{
		validation.Required,
		validation.Length(1, 150),
	}

	ConfirmationKeyRules = []validation.Rule{
		validation.Required,
		validation.Length(40, 40),
		is.Hexadecimal,
	}
)
