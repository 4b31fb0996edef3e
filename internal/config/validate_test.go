// internal/config/validate_test.go
package config

import "testing"

// helper to build a port-adapter config quickly
func portConfig(port, pin string) *Config {
	return &Config{
		Bus: BusConfig{
			Adapter: "port",
			Port:    port,
			CSPin:   pin,
		},
	}
}

// ---- tests ----

func TestValidate_Empty(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Port(t *testing.T) {
	if err := Validate(portConfig("/dev/spidev0.0", "GPIO8")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PortRequiresPort(t *testing.T) {
	if err := Validate(portConfig("", "GPIO8")); err == nil {
		t.Fatalf("expected missing port error, got nil")
	}
}

func TestValidate_PortRequiresCSPin(t *testing.T) {
	if err := Validate(portConfig("/dev/spidev0.0", "")); err == nil {
		t.Fatalf("expected missing cs_pin error, got nil")
	}
}

func TestValidate_UnknownAdapter(t *testing.T) {
	cfg := &Config{Bus: BusConfig{Adapter: "ch341"}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown adapter error, got nil")
	}
}

func TestValidate_NegativeClock(t *testing.T) {
	cfg := &Config{Bus: BusConfig{ClockHz: -1}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected negative clock error, got nil")
	}
}

func TestValidate_CustomCapacity(t *testing.T) {
	tests := []struct {
		capacity uint32
		ok       bool
	}{
		{0, true},
		{256, true},
		{1 << 24, true},
		{1000, false},
		{1<<24 + 256, false},
	}

	for _, tt := range tests {
		cfg := &Config{Flash: FlashConfig{CustomCapacity: tt.capacity}}
		err := Validate(cfg)
		if tt.ok && err != nil {
			t.Errorf("capacity %d: unexpected error: %v", tt.capacity, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("capacity %d: expected error, got nil", tt.capacity)
		}
	}
}

func TestValidate_NegativePoll(t *testing.T) {
	cfg := &Config{Poll: PollConfig{ReadyTimeoutMs: -5}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected negative poll error, got nil")
	}
}

func TestValidate_Log(t *testing.T) {
	if err := Validate(&Config{Log: LogConfig{Level: "trace"}}); err == nil {
		t.Fatalf("expected unknown level error, got nil")
	}
	if err := Validate(&Config{Log: LogConfig{Format: "xml"}}); err == nil {
		t.Fatalf("expected unknown format error, got nil")
	}
	if err := Validate(&Config{Log: LogConfig{Level: "debug", Format: "json"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Fatalf("Validate mutated config: %+v", cfg)
	}
}
