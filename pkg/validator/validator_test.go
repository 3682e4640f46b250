package validator

import "testing"

type monitoringReq struct {
	Contact   string   `json:"emergency_contact" validate:"required,max=10"`
	Waypoints []string `json:"waypoints" validate:"required,min=1,dive,required"`
	Status    string   `json:"status" validate:"omitempty,oneof=REQUESTED COMPLETED"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		req    monitoringReq
		fields []string
	}{
		{"valid", monitoringReq{Contact: "c-1", Waypoints: []string{"B"}}, nil},
		{"missing contact", monitoringReq{Waypoints: []string{"B"}}, []string{"emergency_contact"}},
		{"empty waypoints", monitoringReq{Contact: "c-1", Waypoints: []string{}}, []string{"waypoints"}},
		{"bad status", monitoringReq{Contact: "c-1", Waypoints: []string{"B"}, Status: "FLYING"}, []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.req)
			if len(errs) != len(tt.fields) {
				t.Fatalf("got %v, want fields %v", errs, tt.fields)
			}
			for _, f := range tt.fields {
				if _, ok := errs[f]; !ok {
					t.Fatalf("expected error for %s, got %v", f, errs)
				}
			}
		})
	}
}
