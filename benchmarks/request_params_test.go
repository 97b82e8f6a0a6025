package optgrammar_test

import (
	"strconv"
	"testing"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/source/gojson"
)

// ---- Helpers ----

func describeInstancesSchema(tb testing.TB) *og.Schema {
	tb.Helper()
	return og.New(
		og.Named("InstanceId", og.MemberedList(og.String())),
		og.Named("Filter", og.MemberedList(og.Structure(
			og.Named("Name", og.String(), og.Required()),
			og.Named("Value", og.MemberedList(og.String())),
		))),
		og.Named("MaxResults", og.Integer()),
	)
}

func filters(n int) og.Map {
	fs := make([]any, n)
	for i := range fs {
		fs[i] = og.NewMap("name", "tag:k"+strconv.Itoa(i), "value", []any{"a", "b", "c"})
	}
	return og.NewMap("filter", fs, "max_results", 100)
}

// ---- Benchmarks ----

func BenchmarkValidate_Filters10(b *testing.B) {
	s := describeInstancesSchema(b)
	in := filters(10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Validate(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRequestParams_Filters10(b *testing.B) {
	s := describeInstancesSchema(b)
	in := filters(10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.RequestParams(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRequestParams_PlainMap(b *testing.B) {
	s := describeInstancesSchema(b)
	in := map[string]any{"instance_id": []string{"i-1", "i-2", "i-3"}, "max_results": 5}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.RequestParams(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeAndEncode_JSON(b *testing.B) {
	s := describeInstancesSchema(b)
	body := []byte(`{"filter":[{"name":"tag:env","value":["prod","stage"]},{"name":"state","value":["running"]}],"max_results":50}`)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := gojson.Decode(body)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.RequestParams(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCustomize(b *testing.B) {
	base := describeInstancesSchema(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = base.Customize(og.Named("DryRun", og.Boolean()), og.Named("MaxResults", og.Required()))
	}
}
