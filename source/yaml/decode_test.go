package yaml_test

import (
	"strings"
	"testing"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/source/yaml"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	v, err := yaml.Decode([]byte(`
zeta: 1
alpha:
  b: true
  a: ~
mid: [x, 2.5]
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(og.Map)
	if !ok {
		t.Fatalf("expected og.Map, got %T", v)
	}
	if got := strings.Join(m.Keys(), ","); got != "zeta,alpha,mid" {
		t.Fatalf("unexpected key order %s", got)
	}
	if n, _ := m.Get("zeta"); n != 1 {
		t.Fatalf("unexpected int %#v", n)
	}
	inner, _ := m.Get("alpha")
	if got := strings.Join(inner.(og.Map).Keys(), ","); got != "b,a" {
		t.Fatalf("unexpected nested order %s", got)
	}
	arr, _ := m.Get("mid")
	if items := arr.([]any); len(items) != 2 || items[0] != "x" || items[1] != 2.5 {
		t.Fatalf("unexpected sequence %#v", arr)
	}
}

func TestDecode_AliasesAndMerge(t *testing.T) {
	v, err := yaml.Decode([]byte(`
base: &base
  a: 1
  b: 2
derived:
  c: 3
  <<: *base
  b: 20
tags: &tags [x, y]
again: *tags
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(og.Map)
	d, _ := m.Get("derived")
	dm := d.(og.Map)
	if got := strings.Join(dm.Keys(), ","); got != "c,a,b" {
		t.Fatalf("unexpected merged keys %s", got)
	}
	if b, _ := dm.Get("b"); b != 20 {
		t.Fatalf("explicit key should override merged value, got %v", b)
	}
	again, _ := m.Get("again")
	if items := again.([]any); len(items) != 2 || items[1] != "y" {
		t.Fatalf("alias not expanded: %#v", again)
	}
}

func TestDecode_EmptyAndErrors(t *testing.T) {
	v, err := yaml.Decode(nil)
	if err != nil || v != nil {
		t.Fatalf("empty document: %v %v", v, err)
	}
	v, err = yaml.DecodeReader(strings.NewReader(""))
	if err != nil || v != nil {
		t.Fatalf("empty reader: %v %v", v, err)
	}
	if _, err := yaml.Decode([]byte("a: [1, 2")); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := yaml.Decode([]byte("? [a]\n: 1\n")); err == nil {
		t.Fatalf("expected error for sequence key")
	}
}

func TestDecode_FeedsCustomizeConfig(t *testing.T) {
	v, err := yaml.Decode([]byte(`
InstanceId:
  - membered_list: [string]
MaxResults: [integer, required]
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s, err := og.New().CustomizeConfig(v)
	if err != nil {
		t.Fatalf("customize: %v", err)
	}
	if err := s.Validate(og.NewMap("instance_id", []any{"i-1"})); err == nil {
		t.Fatalf("max_results should be required")
	}
	ps, err := s.RequestParams(og.NewMap("max_results", 5, "instance_id", []any{"i-1"}))
	if err != nil {
		t.Fatalf("request params: %v", err)
	}
	if len(ps) != 2 || ps[0].Key != "MaxResults" || ps[1].Key != "InstanceId.member.1" {
		t.Fatalf("unexpected params %v", ps)
	}
}
