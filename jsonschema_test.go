package optgrammar_test

import (
	"testing"

	og "github.com/reoring/optgrammar"
)

func TestJSONSchema_Projection(t *testing.T) {
	s := og.New(
		og.Named("Bucket", og.String(), og.Required()),
		og.Named("MaxKeys", og.Integer(), og.Rename("limit")),
		og.Named("Body", og.Blob()),
		og.Named("At", og.Timestamp()),
		og.Named("Filter", og.MemberedList(og.Structure(
			og.Named("Name", og.Required()),
			og.Named("Flag", og.Boolean()),
		))),
	)
	sch, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	if sch.Type != "object" || sch.AdditionalProperties != false {
		t.Fatalf("unexpected root: %+v", sch)
	}
	if len(sch.Required) != 1 || sch.Required[0] != "bucket" {
		t.Fatalf("unexpected required: %v", sch.Required)
	}
	if p := sch.Properties["bucket"]; p == nil || p.Type != "string" || p.WireName != "Bucket" {
		t.Fatalf("bucket: %+v", p)
	}
	if p := sch.Properties["limit"]; p == nil || p.Type != "integer" || p.WireName != "MaxKeys" {
		t.Fatalf("limit: %+v", p)
	}
	if p := sch.Properties["body"]; p == nil || p.Format != "byte" {
		t.Fatalf("body: %+v", p)
	}
	if p := sch.Properties["at"]; p == nil || p.Format != "date-time" || p.Type != "" {
		t.Fatalf("at: %+v", p)
	}

	f := sch.Properties["filter"]
	if f == nil || f.Type != "array" || f.Items == nil || f.Items.Type != "object" {
		t.Fatalf("filter: %+v", f)
	}
	if f.Items.Properties["flag"].Type != "boolean" || len(f.Items.Required) != 1 || f.Items.Required[0] != "name" {
		t.Fatalf("filter items: %+v", f.Items)
	}
}

func TestJSONSchema_Empty(t *testing.T) {
	var s *og.Schema
	sch, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	if len(sch.Properties) != 0 || sch.Required != nil {
		t.Fatalf("unexpected schema: %+v", sch)
	}
}
