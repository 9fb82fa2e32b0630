package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// Minimal internal validator, driven by `validate:"..."` struct tags.
// Supports:
// - required
// - vouchercode (12 chars of the unambiguous code charset)
// - eqfield=OtherField (field equals another field)

var reVoucherCode = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{12}$`)

// ValidateStruct inspects struct tags and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range strings.Split(tag, ",") {
			p = strings.TrimSpace(p)
			switch {
			case p == "required":
				if fv.IsZero() {
					return errors.New(field.Name + " is required")
				}
			case p == "vouchercode":
				if sval != "" && !reVoucherCode.MatchString(strings.ToUpper(sval)) {
					return errors.New(field.Name + " is not a valid voucher code")
				}
			case strings.HasPrefix(p, "eqfield="):
				other := strings.TrimPrefix(p, "eqfield=")
				of := v.FieldByName(other)
				if of.IsValid() && of.Kind() == reflect.String && sval != of.String() {
					return errors.New(field.Name + " must equal " + other)
				}
			}
		}
	}
	return nil
}
