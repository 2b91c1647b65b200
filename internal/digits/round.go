package digits

import "math/big"

// Places returns the number of base-digits needed to tell apart every
// multiple of 1/den: the smallest p with base^p >= den.
func Places(den, base int) int {
	b := big.NewInt(int64(base))
	d := big.NewInt(int64(den))
	p := big.NewInt(1)
	places := 0
	for p.Cmp(d) < 0 {
		p.Mul(p, b)
		places++
	}
	return places
}

// RoundFraction expands num/den into exactly Places(den, base) digits,
// rounding the last one half-up.
func RoundFraction(num, den, base int) []int {
	places := Places(den, base)
	if places == 0 {
		return []int{}
	}

	b := big.NewInt(int64(base))
	d := big.NewInt(int64(den))
	scale := new(big.Int).Exp(b, big.NewInt(int64(places)), nil)

	// floor(num*scale/den + 1/2) == floor((2*num*scale + den) / (2*den))
	scaled := new(big.Int).Mul(big.NewInt(int64(num)), scale)
	scaled.Lsh(scaled, 1)
	scaled.Add(scaled, d)
	scaled.Quo(scaled, new(big.Int).Lsh(d, 1))

	out := make([]int, places)
	mod := new(big.Int)
	for i := places - 1; i >= 0 && scaled.Sign() > 0; i-- {
		scaled.QuoRem(scaled, b, mod)
		out[i] = int(mod.Int64())
	}
	return out
}
