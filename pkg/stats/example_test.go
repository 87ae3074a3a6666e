package stats_test

import (
	"fmt"

	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

func ExampleCompute() {
	records, _ := dataset.LineSample().Records()

	band, err := stats.Compute(records, stats.FieldEquals("flag", dataset.FlagBaseline), "Variable 1", stats.Options{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("n=%d mean=%.2f sd=%.2f band=[%.2f, %.2f]\n", band.N, band.Mean, band.StdDev, band.Lower, band.Upper)
	// Output:
	// n=7 mean=100.00 sd=2.00 band=[96.08, 103.92]
}
