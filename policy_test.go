package cv

import "testing"

func TestPolicyDefaultIsAuto(t *testing.T) {
	// The zero value of the atomic is PolicyAuto.
	if PolicyAuto != Policy(0) {
		t.Fatal("PolicyAuto must be the zero value")
	}
}

func TestSetPolicyRoundTrip(t *testing.T) {
	defer SetPolicy(PolicyAuto)

	for _, p := range []Policy{PolicyForceCPU, PolicyForceGPU, PolicyAuto} {
		SetPolicy(p)
		if got := CurrentPolicy(); got != p {
			t.Errorf("CurrentPolicy = %v, want %v", got, p)
		}
	}
}

func TestPolicyString(t *testing.T) {
	tests := []struct {
		p    Policy
		want string
	}{
		{PolicyAuto, "auto"},
		{PolicyForceCPU, "force-cpu"},
		{PolicyForceGPU, "force-gpu"},
		{Policy(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestBackendString(t *testing.T) {
	if BackendCPU.String() != "cpu" || BackendGPU.String() != "gpu" || BackendNone.String() != "none" {
		t.Error("backend names changed")
	}
}
