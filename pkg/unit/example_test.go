package unit_test

import (
	"fmt"

	"github.com/maxplotlib/maxplot/pkg/unit"
)

func ExampleQuantity_Convert() {
	// Distances recorded in kilometres, converted to metres for plotting.
	d := unit.MustNew([]float64{1, 2, 3}, "km")
	m, _ := d.ConvertTo("m")
	fmt.Println(m.Values())
	// Output:
	// [1000 2000 3000]
}

func ExampleQuantity_Convert_affine() {
	// Affine units convert through the SI base unit (Kelvin).
	temp := unit.MustNew([]float64{25}, "degC")
	k, _ := temp.ConvertTo("K")
	fmt.Println(k.Value(0))
	// Output:
	// 298.15
}

func ExampleQuantity_Convert_incompatible() {
	d := unit.MustNew([]float64{1}, "m")
	_, err := d.ConvertTo("s")
	fmt.Println(err)
	// Output:
	// INCOMPATIBLE_UNIT: cannot convert "m" to "s": incompatible dimensions
}

func ExampleCompatible() {
	h := unit.MustParse("h")
	ms := unit.MustParse("ms")
	kg := unit.MustParse("kg")
	fmt.Println(unit.Compatible(h, ms))
	fmt.Println(unit.Compatible(h, kg))
	// Output:
	// true
	// false
}
