package admin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	now        func() time.Time
	bcryptCost int
	validate   *validator.Validate
}

// Option configures Users and Payments.
type Option func(*options)

// WithClock overrides the time source used for lastLogin, paidDate and
// refund notes.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

func newOptions(opts []Option) options {
	o := options{
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// today formats the current date the way every date field is stored.
func (o options) today() string {
	return o.now().Format(types.DateLayout)
}

// check runs the struct's validate tags. Field failures are kept as
// validator.ValidationErrors in the chain so the HTTP layer can render them.
func (o options) check(req any) error {
	err := o.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, verrs)
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
