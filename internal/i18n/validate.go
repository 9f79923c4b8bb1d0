package i18n

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	uk_translations "github.com/go-playground/validator/v10/translations/uk"
)

func (c *Catalog) initValidator() error {
	// Field names in messages are the localized labels of the json names.
	c.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return c.FieldLabel(name)
	})

	switch c.locale {
	case English:
		return en_translations.RegisterDefaultTranslations(c.validate, c.trans)
	default:
		return uk_translations.RegisterDefaultTranslations(c.validate, c.trans)
	}
}

// FieldLabel returns the localized label of a json field name.
func (c *Catalog) FieldLabel(field string) string {
	key := Key(fieldPrefix + field)
	if s := c.T(key); s != string(key) {
		return s
	}
	return field
}

// Struct validates v and returns its failures as localized lines.
// A nil slice means v is valid.
func (c *Catalog) Struct(v any) ([]string, error) {
	err := c.validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fe.Translate(c.trans))
	}
	return out, nil
}
