package viewstore

import (
	"encoding/json"
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestFilterValueJSON(t *testing.T) {
	t.Run("multiselect", func(t *testing.T) {
		data, err := json.Marshal(Multiselect("startup", "enterprise"))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != `["startup","enterprise"]` {
			t.Errorf("Marshal = %s", data)
		}
		var v FilterValue
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if v.Kind() != FilterMultiselect || len(v.Selected) != 2 || v.Selected[1] != "enterprise" {
			t.Errorf("round trip = %+v", v)
		}
	})

	t.Run("numeric selection elements coerce to strings", func(t *testing.T) {
		var v FilterValue
		if err := json.Unmarshal([]byte(`[1,2.5,true]`), &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		want := []string{"1", "2.5", "true"}
		for i, s := range want {
			if v.Selected[i] != s {
				t.Errorf("Selected = %v, want %v", v.Selected, want)
				break
			}
		}
	})

	t.Run("range", func(t *testing.T) {
		data, err := json.Marshal(Range(f64(18), f64(65)))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var v FilterValue
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if v.Kind() != FilterRange || *v.Min != 18 || *v.Max != 65 {
			t.Errorf("round trip = %+v", v)
		}
	})

	t.Run("open-ended range", func(t *testing.T) {
		var v FilterValue
		if err := json.Unmarshal([]byte(`{"min":10}`), &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if *v.Min != 10 || v.Max != nil {
			t.Errorf("v = %+v", v)
		}
	})

	t.Run("text", func(t *testing.T) {
		var v FilterValue
		if err := json.Unmarshal([]byte(`"designer"`), &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if v.Kind() != FilterText || v.Text != "designer" {
			t.Errorf("v = %+v", v)
		}
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		data, err := json.Marshal(DateRange(&from, nil))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var v FilterValue
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if v.Kind() != FilterDateRange || !v.From.Equal(from) || v.To != nil {
			t.Errorf("round trip = %+v", v)
		}
	})

	t.Run("null deactivates", func(t *testing.T) {
		var v FilterValue
		if err := json.Unmarshal([]byte(`null`), &v); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !v.IsEmpty() {
			t.Errorf("v = %+v, want empty", v)
		}
	})
}

func TestFilterValueIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    FilterValue
		want bool
	}{
		{"zero value", FilterValue{}, true},
		{"empty selection", Multiselect(), true},
		{"non-empty selection", Multiselect("a"), false},
		{"open range", Range(nil, nil), true},
		{"bounded range", Range(f64(1), nil), false},
		{"empty text", Text(""), true},
		{"text", Text("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodecDefensiveDecode(t *testing.T) {
	t.Run("malformed filters yield nil", func(t *testing.T) {
		if got := DecodeFilters(`{"broken`); got != nil {
			t.Errorf("DecodeFilters = %v", got)
		}
	})

	t.Run("malformed sorts yield nil", func(t *testing.T) {
		if got := DecodeSorts(`not json`); got != nil {
			t.Errorf("DecodeSorts = %v", got)
		}
	})

	t.Run("malformed fields yield nil", func(t *testing.T) {
		if got := DecodeFields(`{}`); got != nil {
			t.Errorf("DecodeFields = %v", got)
		}
	})

	t.Run("sorts without field are dropped", func(t *testing.T) {
		got := DecodeSorts(`[{"id":"a","field":"","order":"asc"},{"id":"b","field":"name","order":"bogus"}]`)
		if len(got) != 1 {
			t.Fatalf("DecodeSorts = %+v", got)
		}
		if got[0].Field != "name" || got[0].Order != SortAsc {
			t.Errorf("criterion = %+v", got[0])
		}
	})

	t.Run("round trip", func(t *testing.T) {
		m := FilterMap{
			"segments": Multiselect("smb"),
			"age":      Range(f64(25), f64(40)),
			"role":     Text("founder"),
		}
		decoded := DecodeFilters(EncodeFilters(m))
		if len(decoded) != 3 {
			t.Fatalf("decoded = %+v", decoded)
		}
		if decoded["segments"].Selected[0] != "smb" || *decoded["age"].Max != 40 || decoded["role"].Text != "founder" {
			t.Errorf("decoded = %+v", decoded)
		}
	})
}

func TestViewSortsLegacyPromotion(t *testing.T) {
	v := &View{SortBy: "name", SortOrder: SortDesc}
	sorts := v.Sorts()
	if len(sorts) != 1 {
		t.Fatalf("Sorts = %+v", sorts)
	}
	if sorts[0].Field != "name" || sorts[0].Order != SortDesc {
		t.Errorf("criterion = %+v", sorts[0])
	}

	t.Run("multi-key column wins", func(t *testing.T) {
		v.SetSorts([]SortCriterion{{ID: "priority", Field: "priority", Order: SortAsc}})
		sorts := v.Sorts()
		if len(sorts) != 1 || sorts[0].Field != "priority" {
			t.Errorf("Sorts = %+v", sorts)
		}
		// Legacy columns track the primary criterion.
		if v.SortBy != "priority" || v.SortOrder != SortAsc {
			t.Errorf("legacy columns = %q %q", v.SortBy, v.SortOrder)
		}
	})
}
