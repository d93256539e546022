package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"fulfillment/internal/pkg/errs"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var codePattern = regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{4}$`)

// Code is the human order code ORD-<unix millis>-<4 base36 chars> quoted to
// customers and used by the tracking lookup.
type Code string

// GenerateCode builds a fresh code for an order submitted at now.
func GenerateCode(now time.Time) Code {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return Code(fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix))
}

func ParseCode(s string) (Code, error) {
	c := Code(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Code) Validate() error {
	if !codePattern.MatchString(string(c)) {
		return errs.NewValueIsInvalidErrorWithCause("order code", fmt.Errorf("%q does not match ORD-<millis>-<XXXX>", string(c)))
	}
	return nil
}

func (c Code) String() string {
	return string(c)
}
