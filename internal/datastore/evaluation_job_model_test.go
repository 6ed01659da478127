package datastore

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseJobParameters(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    JobParameters
		wantErr bool
	}{
		{name: "empty", raw: "", want: JobParameters{}},
		{name: "json_null", raw: "null", want: JobParameters{}},
		{name: "threshold_only", raw: `{"threshold": 85.5}`, want: JobParameters{Threshold: 85.5}},
		{name: "both", raw: `{"threshold": 70, "sentence_limit": 50}`, want: JobParameters{Threshold: 70, SentenceLimit: 50}},
		{name: "invalid", raw: `{"threshold": "high"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJobParameters(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseJobParameters(%s) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIntSliceJSONRoundTrip(t *testing.T) {
	raw, err := MarshalIntSliceToJSON([]int{3, 1, 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ids, err := UnmarshalJSONToIntSlice(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{3, 1, 4}) {
		t.Errorf("round trip = %v, want [3 1 4]", ids)
	}

	// Nil slice marshals to an empty JSON array, and null unmarshals to an empty slice.
	raw, err = MarshalIntSliceToJSON(nil)
	if err != nil || string(raw) != "[]" {
		t.Errorf("MarshalIntSliceToJSON(nil) = %s, %v; want [], nil", raw, err)
	}
	ids, err = UnmarshalJSONToIntSlice(json.RawMessage("null"))
	if err != nil || len(ids) != 0 {
		t.Errorf("UnmarshalJSONToIntSlice(null) = %v, %v; want empty, nil", ids, err)
	}
}
