package optgrammar_test

import (
	"fmt"

	og "github.com/reoring/optgrammar"
)

func ExampleSchema_RequestParams() {
	s := og.New(
		og.Named("InstanceId", og.MemberedList(og.String())),
		og.Named("Filter", og.MemberedList(og.Structure(
			og.Named("Name", og.Required()),
			og.Named("Value", og.MemberedList()),
		))),
	)
	ps, err := s.RequestParams(og.NewMap(
		"filter", []any{og.NewMap("name", "instance-state-name", "value", []any{"running"})},
		"instance_id", []string{"i-1"},
	))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range ps {
		fmt.Printf("%s=%s\n", p.Key, p.Value)
	}
	// Output:
	// Filter.member.1.Name=instance-state-name
	// Filter.member.1.Value.member.1=running
	// InstanceId.member.1=i-1
}

func ExampleSchema_Validate() {
	s := og.New(og.Named("bar", og.Structure(og.Named("foo", og.List(og.Integer())))))
	err := s.Validate(og.NewMap("bar", og.NewMap("foo", []any{1, "x"})))
	fmt.Println(err)
	if e, ok := og.AsError(err); ok {
		fmt.Println(e.Path)
	}
	// Output:
	// expected integer value for member 2 of key foo of option bar
	// /bar/foo/1
}

func ExampleSchema_Customize() {
	base := og.New(og.Named("MaxResults", og.Integer()))
	strict := base.Customize(og.Named("MaxResults", og.Required()))

	fmt.Println(base.Validate(og.NewMap()))
	fmt.Println(strict.Validate(og.NewMap()))
	// Output:
	// <nil>
	// missing required option max_results
}
