package validationx

import (
	"reflect"
	"strings"
	"time"

	"github.com/ARUMANDESU/validation"
	"golang.org/x/net/publicsuffix"
)

var (
	// Required is a validation rule that checks if a value is not empty.
	// Use it for uuid verification, otherwise use validation.Required.
	Required = RequiredRule{}

	// EmailDomain checks that the domain part sits under a known public suffix.
	EmailDomain = EmailDomainRule{}
)

var ErrInvalidEmailDomain = validation.NewError(
	"validation_email_domain",
	"must use a resolvable public domain",
)

type RequiredRule struct{}

func (r RequiredRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || isEmpty(value) {
		return validation.ErrRequired
	}

	return nil
}

type EmailDomainRule struct{}

func (r EmailDomainRule) Validate(value any) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil // let Required and is.Email handle it
	}

	at := strings.LastIndexByte(s, '@')
	if at < 0 || at == len(s)-1 {
		return nil
	}
	domain := s[at+1:]

	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(domain))
	if !icann || suffix == domain {
		return ErrInvalidEmailDomain
	}

	return nil
}

func isEmpty(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array:
		return v.Equal(reflect.Zero(v.Type())) || v.Len() == 0
	case reflect.String:
		return v.Len() == 0 || v.String() == "00000000-0000-0000-0000-000000000000"
	case reflect.Map, reflect.Slice:
		return v.Equal(reflect.Zero(v.Type())) || v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Invalid:
		return true
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem().Interface())
	case reflect.Struct:
		t, ok := value.(time.Time)
		if ok && t.IsZero() {
			return true
		}
	}

	return false
}
