package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a currency amount stored as a whole number of hundredths of a
// unit. All balance arithmetic happens in this fixed-point representation so
// repeated reward accruals stay exact.
type Money int64

// Units returns the amount in currency units.
func (m Money) Units() float64 {
	return float64(m) / 100
}

// String formats the amount in currency units, e.g. "0.2" or "12". Formatting
// is pure integer arithmetic; going through float64 here would reintroduce
// the representation drift the type exists to avoid.
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	switch {
	case frac == 0:
		return sign + strconv.FormatInt(whole, 10)
	case frac%10 == 0:
		return fmt.Sprintf("%s%d.%d", sign, whole, frac/10)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	}
}

// MarshalJSON encodes the amount as a JSON number of currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON decodes a JSON number of currency units, rejecting values
// with sub-cent precision. The decimal string is split and parsed with
// integer math: multiplying in float64 misrounds amounts like 2.2 that have
// no exact binary representation, and this codec must read back every value
// MarshalJSON can produce.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	wholePart, fracPart, hasFrac := strings.Cut(s, ".")
	if wholePart == "" || (hasFrac && fracPart == "") {
		return fmt.Errorf("invalid money amount %q", string(data))
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", string(data), err)
	}

	cents := whole * 100

	if hasFrac {
		if len(fracPart) > 2 {
			if strings.Trim(fracPart[2:], "0") != "" {
				return fmt.Errorf("money amount %q has sub-cent precision", string(data))
			}
			fracPart = fracPart[:2]
		}
		if len(fracPart) == 1 {
			fracPart += "0"
		}

		frac, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid money amount %q: %w", string(data), err)
		}
		cents += frac
	}

	if negative {
		cents = -cents
	}

	*m = Money(cents)
	return nil
}
