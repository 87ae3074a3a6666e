package scale_test

import (
	"fmt"

	"github.com/matzehuels/ddcharts/pkg/scale"
)

func ExampleNewBand() {
	b := scale.NewBand([]string{"a", "b"}, 0, 100, 0.5)
	x, _ := b.Position("b")
	fmt.Printf("step=%.0f bandwidth=%.0f b=%.0f\n", b.Step(), b.Bandwidth(), x)

	_, err := b.Lookup("c")
	fmt.Println(err)
	// Output:
	// step=40 bandwidth=20 b=60
	// OUT_OF_DOMAIN: value "c" is not in the categorical domain
}

func ExampleLinear_Ticks() {
	y := scale.NewLinear(scale.Domain{0, 101}, 300, 0)
	fmt.Println(y.Ticks(10))
	fmt.Println(y.Position(101))
	// Output:
	// [0 10 20 30 40 50 60 70 80 90 100]
	// 0
}
