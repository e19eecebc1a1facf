// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pairing

import "math/big"

func hex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("pairing: invalid constant " + s)
	}
	return n
}

// SM9 BN-curve parameters (GM/T 0044-2016). T is the BN curve's
// generating parameter; P and N are derived from it by NewSM9.
var (
	SM9T = hex("600000000058F98A")
	SM9B = big.NewInt(5)

	// SM9G1x, SM9G1y are the coordinates of G1 ∈ E(Fp).
	SM9G1x = hex("93DE051D62BF718FF5ED0704487D01D6E1E4086909DC3280E8C4E4817C66DDDD")
	SM9G1y = hex("21FE8DDA4F21E607631065125C395BBC1C1C00CBFA6024350C464CD70A3EA616")

	// SM9G2x1/x0, SM9G2y1/y0 are the Fp2 coordinates (x1*u+x0, y1*u+y0) of
	// G2 ∈ E'(Fp2).
	SM9G2x1 = hex("85AEF3D078640C98597B6027B441A01FF1DD2C190F5E93C454806C11D8806141")
	SM9G2x0 = hex("3722755292130B08D2AAB97FD34EC120EE265948D19C17ABF9B7213BAF82D65B")
	SM9G2y1 = hex("17509B092E845C1266BA0D262CBEE6ED0736A96FA347C8BD856DC76B84EBEB96")
	SM9G2y0 = hex("A7CF28D519BE3DA65F3170153D278FF247EFBA98A71A08116215BBA5C999A7C7")
)
