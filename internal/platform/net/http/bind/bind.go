// Package bind fills request parameter structs from chi path params and the
// query string, then validates them
package bind

import (
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the shared validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// handles as accepted by the upstream network
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// Get returns the validator singleton
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(paramName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
		translate(v, trans, "username", "{0} must be 1 to 15 letters, digits or underscores")
		translate(v, trans, "oneof", "{0} must be one of [{1}]")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// paramName reports fields by their path or query name in messages
func paramName(f reflect.StructField) string {
	for _, tag := range []string{"path", "query"} {
		if n := f.Tag.Get(tag); n != "" && n != "-" {
			return n
		}
	}
	return f.Name
}

func translate(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// Params binds `path:"name"` fields from chi URL params and `query:"name"`
// fields from the query string into T, applies `default:"v"` for absent
// query values, and validates. Supported field kinds are string, int and bool.
func Params[T any](r *http.Request) (T, error) {
	var dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Newf(perr.ErrorCodeUnknown, "bind: %T is not a struct", dst)
	}
	rt := rv.Type()
	q := r.URL.Query()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		var raw string
		switch {
		case f.Tag.Get("path") != "":
			raw = chi.URLParam(r, f.Tag.Get("path"))
		case f.Tag.Get("query") != "":
			raw = strings.TrimSpace(q.Get(f.Tag.Get("query")))
			if raw == "" {
				raw = f.Tag.Get("default")
			}
		default:
			continue
		}
		if raw == "" {
			continue
		}
		if err := set(rv.Field(i), raw); err != nil {
			return dst, perr.WithField(perr.InvalidArgf("%s: %v", paramName(f), err), paramName(f))
		}
	}

	if err := Get().Validator.Struct(dst); err != nil {
		field, msg := FieldAndMessage(err)
		return dst, perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, msg), field)
	}
	return dst, nil
}

func set(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return perr.Newf(perr.ErrorCodeUnknown, "unsupported kind %s", v.Kind())
	}
	return nil
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}
