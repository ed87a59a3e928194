package inventory

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Record is one catalog entry.
type Record struct {
	ID       int             `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" yaml:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" yaml:"quantity" validate:"gte=0"`
}

// NewRecord builds a Record from a textual price such as "499.99".
func NewRecord(id int, name string, quantity int, price string) (Record, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Record{}, invalidError(id, map[string]string{"price": "not a decimal number"})
	}
	return Record{ID: id, Name: name, Price: p, Quantity: quantity}, nil
}

// Equal reports whether two records hold the same values.
// Prices compare numerically, so 89.5 equals 89.50.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Name == o.Name &&
		r.Quantity == o.Quantity &&
		r.Price.Equal(o.Price)
}

func (r Record) String() string {
	return fmt.Sprintf("%d,%s,%d,%s", r.ID, r.Name, r.Quantity, r.Price.String())
}

// EqualRecords reports whether two sequences hold equal records in the same order.
func EqualRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Decimals validate as their sign (-1, 0 or 1), so gte=0 rejects every
	// negative price however small its magnitude.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// normalize trims the name and converts it to NFC so that visually equal
// names entered on different terminals compare equal.
func normalize(r Record) Record {
	r.Name = norm.NFC.String(strings.TrimSpace(r.Name))
	return r
}

// Validate checks the record invariants and returns an INVALID error listing
// the offending fields.
func Validate(r Record) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate record %d: %w", r.ID, err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = describeTag(fe.Tag())
	}
	return invalidError(r.ID, details)
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "gte":
		return "must not be negative"
	default:
		return tag
	}
}
