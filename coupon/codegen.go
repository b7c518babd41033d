package coupon

import (
	"crypto/rand"
	"fmt"
)

const (
	rewardCodePrefix = "GIFT"
	rewardCodeLength = 6
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces coupon codes. Injectable so tests can pin codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// GiftCodeGenerator generates reward codes of the form GIFT followed by six
// random uppercase alphanumeric characters.
type GiftCodeGenerator struct{}

func (GiftCodeGenerator) Generate() (string, error) {
	buf := make([]byte, rewardCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating coupon code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return rewardCodePrefix + string(buf), nil
}

// CodeGeneratorFunc adapts a function to the CodeGenerator interface.
type CodeGeneratorFunc func() (string, error)

func (f CodeGeneratorFunc) Generate() (string, error) {
	return f()
}
