package scatter_test

import (
	"fmt"

	"github.com/matzehuels/scatterbox/pkg/scatter"
)

func ExampleLayout() {
	items := make([]scatter.Item, 5)
	for i := range items {
		items[i].Size = scatter.MeasureSize(120)
	}

	res := scatter.Layout(items, 400, 400, &scatter.Options{Rand: scatter.NewRand(1)})

	inside := true
	for _, it := range items {
		if it.Pos.Left < 20 || it.Pos.Left > 260 || it.Pos.Top < 20 || it.Pos.Top > 260 {
			inside = false
		}
	}
	fmt.Println("centers:", len(res.Centers))
	fmt.Println("bounds:", res.Bounds)
	fmt.Println("inside:", inside)
	// Output:
	// centers: 5
	// bounds: {80 320 80 320}
	// inside: true
}

func ExampleViewportHeight() {
	fmt.Println(scatter.ViewportHeight(900, 120, scatter.DefaultHeaderGap))
	fmt.Println(scatter.ViewportHeight(500, 700, scatter.DefaultHeaderGap))
	// Output:
	// 764
	// 320
}
