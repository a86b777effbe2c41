package xreservoir_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/omeyang/samplekit/pkg/sample/xrand"
	"github.com/omeyang/samplekit/pkg/sample/xreservoir"
	"github.com/omeyang/samplekit/pkg/tabular/xdelim"
)

func ExampleEngine_Run() {
	input := "id\tweight\n" +
		"a\t1.0\n" +
		"b\t2.5\n" +
		"c\t0.8\n" +
		"d\t1.2\n"

	reader, _ := xdelim.NewReader(strings.NewReader(input))
	var out strings.Builder
	writer, _ := xdelim.NewWriter(&out)

	engine, _ := xreservoir.New(
		xreservoir.Config{SampleCount: 2, WeightField: "weight"},
		xreservoir.WithSource(xrand.NewSeeded("example")),
	)

	summary, _ := engine.Run(context.Background(), reader, writer)
	fmt.Printf("read=%d retained=%d\n", summary.Read, summary.Retained)
	// Output: read=4 retained=2
}

func ExampleEngine_Run_forcedInclude() {
	// 强制包含绕过权重：即使 K=1 且别的记录权重高得多，X 也总在样本中
	input := "id\tweight\nhuge\t100000\nX\t0.0001\n"

	reader, _ := xdelim.NewReader(strings.NewReader(input))
	var out strings.Builder
	writer, _ := xdelim.NewWriter(&out)

	engine, _ := xreservoir.New(
		xreservoir.Config{SampleCount: 1, WeightField: "weight", Include: []string{"X"}},
		xreservoir.WithSource(xrand.NewSeeded("example")),
	)

	_, _ = engine.Run(context.Background(), reader, writer)
	fmt.Print(out.String())
	// Output:
	// id	weight
	// X	0.0001
}

func ExampleSelector() {
	selector, _ := xreservoir.NewSelector(2, xrand.NewPCG(1, 2))

	// key 越大越优；容量满后弱者被逐出
	for i, key := range []float64{-5, -1, -3, -9} {
		_, _ = selector.Offer(&xreservoir.Candidate{Key: key, Arrival: i})
	}

	retained, _ := selector.Drain()
	for _, c := range retained {
		fmt.Printf("arrival=%d key=%g\n", c.Arrival, c.Key)
	}
	// Output:
	// arrival=1 key=-1
	// arrival=2 key=-3
}

func ExampleIdentityFilter() {
	filter := xreservoir.NewIdentityFilter(
		[]string{"keep-me"},
		[]string{"drop-me", "keep-me"}, // 同时出现时排除优先
	)

	fmt.Println(filter.Classify("anything"))
	fmt.Println(filter.Classify("drop-me"))
	fmt.Println(filter.Classify("keep-me"))
	// Output:
	// Normal
	// Excluded
	// Excluded
}
