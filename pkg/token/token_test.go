package token

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "assigned driver",
			payload: Payload{RouteID: 12, OrderID: 34, Driver: "abebe"},
			want:    "ROUTE_ID:12|ORDER_ID:34|DRIVER:abebe",
		},
		{
			name:    "unassigned driver",
			payload: Payload{RouteID: 7, OrderID: 9},
			want:    "ROUTE_ID:7|ORDER_ID:9|DRIVER:None",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.payload); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := []Payload{
		{RouteID: 1, OrderID: 1, Driver: "driver1"},
		{RouteID: 9223372036854775807, OrderID: 42, Driver: ""},
		{RouteID: 0, OrderID: 0, Driver: "a b c"},
	}

	for _, p := range payloads {
		got, err := Decode(Encode(p))
		if err != nil {
			t.Fatalf("Decode(Encode(%+v)) error: %v", p, err)
		}
		if got != p {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []string{
		"",
		"ROUTE_ID:1|ORDER_ID:2",
		"ORDER_ID:2|ROUTE_ID:1|DRIVER:x",
		"ROUTE_ID:abc|ORDER_ID:2|DRIVER:x",
		"ROUTE_ID:1|ORDER_ID:|DRIVER:x",
	}

	for _, s := range tests {
		if _, err := Decode(s); err == nil {
			t.Errorf("Decode(%q) expected error, got nil", s)
		}
	}
}
