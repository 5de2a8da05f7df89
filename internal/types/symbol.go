package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// Symbol holds the instrument metadata the simulation needs.
type Symbol struct {
	// Name is BASE_QUOTE, e.g. EUR_USD.
	Name string `yaml:"name" json:"name" csv:"name" validate:"required"`
	// MarginRate is the fraction of notional reserved as margin; it acts as leverage.
	MarginRate float64 `yaml:"margin_rate" json:"margin_rate" csv:"margin_rate" validate:"gt=0,lt=1"`
	// Pip is the number of decimals of one pip.
	Pip int `yaml:"pip" json:"pip" csv:"pip" validate:"gte=0"`
	// Distance is the number of decimals of one point, the smallest price step.
	Distance             int     `yaml:"distance" json:"distance" csv:"distance" validate:"gt=0"`
	ContractSizeMin      float64 `yaml:"contract_size_min" json:"contract_size_min" csv:"contract_size_min" validate:"gt=0"`
	ContractSizeInterval float64 `yaml:"contract_size_interval" json:"contract_size_interval" csv:"contract_size_interval" validate:"gt=0"`
}

// Base returns the base currency, the part of the name before the underscore.
func (s Symbol) Base() string {
	base, _, _ := strings.Cut(s.Name, "_")

	return base
}

// Quote returns the quote currency, the part of the name after the underscore.
func (s Symbol) Quote() string {
	_, quote, _ := strings.Cut(s.Name, "_")

	return quote
}

// HasCurrency reports whether currency is the base or quote, ignoring case.
func (s Symbol) HasCurrency(currency string) bool {
	return strings.EqualFold(currency, s.Base()) || strings.EqualFold(currency, s.Quote())
}

// Validate checks the metadata with the struct's validate tags.
func (s Symbol) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid symbol %q", s.Name)
	}

	if !strings.Contains(s.Name, "_") {
		return errors.Newf(errors.ErrCodeInvalidSymbol, "symbol name %q must be BASE_QUOTE", s.Name)
	}

	return nil
}
