package process

import (
	"encoding/csv"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/tablecast/model"
)

func TestSerialize_SingleTable(t *testing.T) {
	out, err := Serialize([]*model.Table{rawTable(
		[]string{"name", "amount"},
		[]string{"alpha", "1.5"},
	)})
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	want := "name,amount\nalpha,1.5\n"
	if out != want {
		t.Errorf("Serialize() = %q, want %q", out, want)
	}
}

func TestSerialize_QuotesSpecialCharacters(t *testing.T) {
	out, err := Serialize([]*model.Table{rawTable(
		[]string{`say "hi"`, "a,b", "line\nbreak"},
	)})
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	want := "\"say \"\"hi\"\"\",\"a,b\",\"line\nbreak\"\n"
	if out != want {
		t.Errorf("Serialize() = %q, want %q", out, want)
	}
}

func TestSerialize_MultipleTablesSectioned(t *testing.T) {
	out, err := Serialize([]*model.Table{
		rawTable([]string{"a", "b"}),
		rawTable([]string{"c", "d"}),
	})
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	want := "Table 1\na,b\n\nTable 2\nc,d\n"
	if out != want {
		t.Errorf("Serialize() = %q, want %q", out, want)
	}
}

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	if out != "" {
		t.Errorf("Serialize(nil) = %q, want empty", out)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"name", "amount"},
		{`quoted "value"`, "a,b"},
		{"multi\nline", ""},
	}
	out, err := Serialize([]*model.Table{rawTable(rows...)})
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}

	got, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-reading serialized output failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("round trip = %v, want %v", got, rows)
	}
}

func TestSerialize_NoBOM(t *testing.T) {
	out, err := Serialize([]*model.Table{rawTable([]string{"x"})})
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	if strings.HasPrefix(out, "\uFEFF") {
		t.Error("output starts with a BOM")
	}
}
