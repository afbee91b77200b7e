package models

import "testing"

func TestMerge_ProfileOverridesOnCollision(t *testing.T) {
	list := Record{
		FieldName:    "Acme",
		FieldRevenue: "$1M",
		FieldGrowth:  "10%",
	}
	profile := Record{
		FieldRevenue:     "$2M",
		FieldFoundedYear: "2015",
	}

	merged := list.Merge(profile)

	if got := merged[FieldRevenue]; got != "$2M" {
		t.Errorf("profile value should win on collision: got %v", got)
	}
	if got := merged[FieldFoundedYear]; got != "2015" {
		t.Errorf("profile-only field missing: got %v", got)
	}
}

func TestMerge_AbsentProfileFieldsPreserved(t *testing.T) {
	list := Record{
		FieldName:     "Acme",
		FieldLocation: "Austin",
	}
	profile := Record{
		FieldDescription: "cloud things",
	}

	merged := list.Merge(profile)

	if got := merged[FieldLocation]; got != "Austin" {
		t.Errorf("list field erased by merge: got %v", got)
	}
	if got := merged[FieldName]; got != "Acme" {
		t.Errorf("name erased by merge: got %v", got)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	list := Record{FieldName: "Acme"}
	profile := Record{FieldCEO: "J. Doe"}

	_ = list.Merge(profile)

	if _, ok := list[FieldCEO]; ok {
		t.Error("Merge mutated the receiver")
	}
	if _, ok := profile[FieldName]; ok {
		t.Error("Merge mutated the argument")
	}
}

func TestName_MissingOrWrongType(t *testing.T) {
	if got := (Record{}).Name(); got != "" {
		t.Errorf("missing name should be empty, got %q", got)
	}
	r := Record{FieldName: 42}
	if got := r.Name(); got != "" {
		t.Errorf("non-string name should be empty, got %q", got)
	}
}
