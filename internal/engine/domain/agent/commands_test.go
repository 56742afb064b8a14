package agent

import (
	"encoding/json"
	"testing"
)

func TestValidateSetPrice_RejectsOutOfRangePrice(t *testing.T) {
	raw, err := json.Marshal(SetPricePayload{LocationID: "LOC_001", Service: ServiceStandardWash, Price: 100.01})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := validateSetPrice(raw); err == nil {
		t.Fatal("expected a price above the maximum to be rejected")
	}
}

func TestValidateSetPrice_RejectsUnknownService(t *testing.T) {
	raw, err := json.Marshal(SetPricePayload{LocationID: "LOC_001", Service: "WASH", Price: 5})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := validateSetPrice(raw); err == nil {
		t.Fatal("expected an unrecognized service name to be rejected")
	}
}

func TestValidateSetPrice_AcceptsBoundaryPrices(t *testing.T) {
	for _, price := range []float64{minPrice, maxPrice} {
		raw, err := json.Marshal(SetPricePayload{LocationID: "LOC_001", Service: ServiceDry, Price: price})
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		if err := validateSetPrice(raw); err != nil {
			t.Fatalf("expected boundary price %v to be accepted, got %v", price, err)
		}
	}
}
