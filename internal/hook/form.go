package hook

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator checks one field value and returns an error message, or ""
// when the value is acceptable.
type Validator func(value string) string

// Required rejects values that are empty after trimming spaces.
func Required(msg string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// MinLength rejects values shorter than n characters.
func MinLength(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return msg
		}
		return ""
	}
}

// MaxLength rejects values longer than n characters.
func MaxLength(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) > n {
			return msg
		}
		return ""
	}
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// Pattern rejects non-empty values that do not match expr. It panics if
// expr does not compile.
func Pattern(expr, msg string) Validator {
	return matching(regexp.MustCompile(expr), msg)
}

// Email rejects non-empty values that are not email addresses.
func Email(msg string) Validator { return matching(emailPattern, msg) }

// URL rejects non-empty values that are not http or https URLs.
func URL(msg string) Validator { return matching(urlPattern, msg) }

func matching(re *regexp.Regexp, msg string) Validator {
	return func(v string) string {
		if v == "" || re.MatchString(v) {
			return ""
		}
		return msg
	}
}

// Numeric rejects non-empty values that are not numbers.
func Numeric(msg string) Validator {
	return func(v string) string {
		if _, err := strconv.ParseFloat(v, 64); v != "" && err != nil {
			return msg
		}
		return ""
	}
}

// Integer rejects non-empty values that are not integers.
func Integer(msg string) Validator {
	return func(v string) string {
		if _, err := strconv.ParseInt(v, 10, 64); v != "" && err != nil {
			return msg
		}
		return ""
	}
}

// Range rejects numbers outside [lo, hi]. Non-numbers pass; combine with
// Numeric to reject them.
func Range(lo, hi float64, msg string) Validator {
	return func(v string) string {
		n, err := strconv.ParseFloat(v, 64)
		if err == nil && (n < lo || n > hi) {
			return msg
		}
		return ""
	}
}

// FormConfig describes a form's fields.
type FormConfig struct {
	Initial    map[string]string
	Validators map[string][]Validator
	OnSubmit   func(values map[string]string)
}

// Field is the registration view of one form field.
type Field struct {
	Name    string
	Value   string
	Error   string
	Touched bool
}

// HasError reports whether the field failed validation.
func (f Field) HasError() bool { return f.Error != "" }

// Form is the handle returned by UseForm. Its reads are live: a value set
// from an input handler is visible to the rest of the same render.
type Form struct {
	initial    map[string]string
	validators map[string][]Validator
	onSubmit   func(map[string]string)

	values     State[map[string]string]
	setValues  Setter[map[string]string]
	errors     State[map[string]string]
	setErrors  Setter[map[string]string]
	touched    State[map[string]bool]
	setTouched Setter[map[string]bool]
	submitting State[bool]
	setSubmit  Setter[bool]
	valid      State[bool]
	setValid   Setter[bool]
}

// UseForm creates form state on first render and provides the form to
// descendants through UseFormContext.
func UseForm(c *Context, cfg FormConfig) *Form {
	values, setValues := UseState(c, func() map[string]string { return maps.Clone(cfg.Initial) })
	errs, setErrors := UseState(c, func() map[string]string { return map[string]string{} })
	touched, setTouched := UseState(c, func() map[string]bool { return map[string]bool{} })
	submitting, setSubmit := UseState(c, func() bool { return false })
	valid, setValid := UseState(c, func() bool { return true })

	f := &Form{
		initial:    cfg.Initial,
		validators: cfg.Validators,
		onSubmit:   cfg.OnSubmit,
		values:     values,
		setValues:  setValues,
		errors:     errs,
		setErrors:  setErrors,
		touched:    touched,
		setTouched: setTouched,
		submitting: submitting,
		setSubmit:  setSubmit,
		valid:      valid,
		setValid:   setValid,
	}
	return UseContextProvider(c, func() *Form { return f })
}

// UseFormContext returns the form provided by the nearest UseForm.
func UseFormContext(c *Context) *Form {
	return UseContext[*Form](c)
}

// UseWatch returns the current value of a field.
func UseWatch(c *Context, f *Form, name string) string {
	c.checkLive(-1)
	return f.Value(name)
}

// UseWatchAll returns a copy of every field value.
func UseWatchAll(c *Context, f *Form) map[string]string {
	c.checkLive(-1)
	return f.Values()
}

// Register returns the field's current value, error and touched flag.
func (f *Form) Register(name string) Field {
	return Field{Name: name, Value: f.Value(name), Error: f.Error(name), Touched: f.Touched(name)}
}

// Value returns a field's value.
func (f *Form) Value(name string) string {
	return f.values.Get()[name]
}

// SetValue sets a field's value. Touched fields are validated again.
func (f *Form) SetValue(name, value string) {
	f.setValues.Update(func(m map[string]string) map[string]string {
		return withEntry(m, name, value)
	})
	if f.Touched(name) {
		f.ValidateField(name, value)
	}
}

// Error returns a field's validation message.
func (f *Form) Error(name string) string {
	return f.errors.Get()[name]
}

// SetError sets or, with msg == "", clears a field's validation message.
func (f *Form) SetError(name, msg string) {
	f.setErrors.Update(func(m map[string]string) map[string]string {
		if msg != "" {
			return withEntry(m, name, msg)
		}
		if _, ok := m[name]; !ok {
			return m
		}
		m = maps.Clone(m)
		delete(m, name)
		return m
	})
}

// withEntry returns a copy of m with k set to v. Maps held in state are
// shared with earlier reads and are never modified.
func withEntry[K comparable, V any](m map[K]V, k K, v V) map[K]V {
	n := make(map[K]V, len(m)+1)
	maps.Copy(n, m)
	n[k] = v
	return n
}

// Touched reports whether the user has interacted with a field.
func (f *Form) Touched(name string) bool {
	return f.touched.Get()[name]
}

// SetTouched marks a field as touched or not.
func (f *Form) SetTouched(name string, touched bool) {
	f.setTouched.Update(func(m map[string]bool) map[string]bool {
		return withEntry(m, name, touched)
	})
}

// ValidateField runs the field's validators in order and records the first
// failure.
func (f *Form) ValidateField(name, value string) bool {
	for _, v := range f.validators[name] {
		if msg := v(value); msg != "" {
			f.SetError(name, msg)
			return false
		}
	}
	f.SetError(name, "")
	return true
}

// ValidateAll validates every field that has a value.
func (f *Form) ValidateAll() bool {
	values := f.values.Get()
	ok := true
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if !f.ValidateField(name, values[name]) {
			ok = false
		}
	}
	f.setValid.Set(ok)
	return ok
}

// Submit marks every field touched, validates and, when valid, calls the
// submit handler with a copy of the values.
func (f *Form) Submit() {
	values := f.values.Get()
	touched := make(map[string]bool, len(values))
	for name := range values {
		touched[name] = true
	}
	f.setTouched.Set(touched)
	if !f.ValidateAll() {
		return
	}
	f.setSubmit.Set(true)
	defer f.setSubmit.Set(false)
	if f.onSubmit != nil {
		f.onSubmit(maps.Clone(values))
	}
}

// Reset restores the initial values and clears errors and touched flags.
func (f *Form) Reset() {
	f.setValues.Set(maps.Clone(f.initial))
	f.setErrors.Set(map[string]string{})
	f.setTouched.Set(map[string]bool{})
	f.setSubmit.Set(false)
	f.setValid.Set(true)
}

// Submitting reports whether the submit handler is running.
func (f *Form) Submitting() bool { return f.submitting.Get() }

// Valid reports the result of the last ValidateAll.
func (f *Form) Valid() bool { return f.valid.Get() }

// Values returns a copy of every field value.
func (f *Form) Values() map[string]string { return maps.Clone(f.values.Get()) }

// Errors returns a copy of every validation message.
func (f *Form) Errors() map[string]string { return maps.Clone(f.errors.Get()) }

// HasErrors reports whether any field failed validation.
func (f *Form) HasErrors() bool { return len(f.errors.Get()) > 0 }

// Dirty reports whether any field has been touched.
func (f *Form) Dirty() bool { return len(f.touched.Get()) > 0 }
