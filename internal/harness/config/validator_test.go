//go:build linux

package config

import (
	"strings"
	"syscall"
	"testing"
	"time"
)

func validConfig() *HarnessConfig {
	return DefaultConfig()
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*HarnessConfig)
		field  string
	}{
		{
			name:   "zero iterations",
			modify: func(c *HarnessConfig) { c.Iterations = 0 },
			field:  "iterations",
		},
		{
			name:   "negative nominal",
			modify: func(c *HarnessConfig) { c.Nominal = Duration(-time.Millisecond) },
			field:  "nominal",
		},
		{
			name:   "negative poll interval",
			modify: func(c *HarnessConfig) { c.PollInterval = -1 },
			field:  "pollInterval",
		},
		{
			name:   "negative spin timeout",
			modify: func(c *HarnessConfig) { c.SpinTimeout = -1 },
			field:  "spinTimeout",
		},
		{
			name:   "priority out of range",
			modify: func(c *HarnessConfig) { c.Priority = 100 },
			field:  "priority",
		},
		{
			name:   "empty output dir",
			modify: func(c *HarnessConfig) { c.OutputDir = "" },
			field:  "outputDir",
		},
		{
			name:   "unknown clock",
			modify: func(c *HarnessConfig) { c.Clock = "sundial" },
			field:  "clock",
		},
		{
			name:   "uncatchable signal",
			modify: func(c *HarnessConfig) { c.Signal = "SIGKILL" },
			field:  "signal",
		},
		{
			name:   "unknown timer signal",
			modify: func(c *HarnessConfig) { c.TimerSignal = "SIGBOGUS" },
			field:  "timerSignal",
		},
		{
			name: "same signal for both experiments",
			modify: func(c *HarnessConfig) {
				c.Signal = "SIGUSR2"
				c.TimerSignal = "USR2"
			},
			field: "timerSignal",
		},
		{
			name:   "unknown experiment",
			modify: func(c *HarnessConfig) { c.Experiments = []string{"qsort"} },
			field:  "experiments[0]",
		},
		{
			name:   "duplicate experiment",
			modify: func(c *HarnessConfig) { c.Experiments = []string{"timer", "timer"} },
			field:  "experiments[1]",
		},
		{
			name:   "threshold for unknown experiment",
			modify: func(c *HarnessConfig) { c.Thresholds = map[string][]string{"primes": {"max < 1ms"}} },
			field:  "thresholds.primes",
		},
		{
			name:   "bad threshold expression",
			modify: func(c *HarnessConfig) { c.Thresholds = map[string][]string{"timer": {"p42 < 1ms"}} },
			field:  "thresholds.timer[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should have failed")
			}
			verrs, ok := err.(*ValidationErrors)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ValidationErrors", err)
			}
			found := false
			for _, e := range verrs.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want one on field %q", err, tt.field)
			}
		})
	}
}

func TestValidate_SameSignalAllowedWhenOneDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Signal = "SIGUSR2"
	cfg.TimerSignal = "SIGUSR2"
	cfg.Experiments = []string{ExperimentTimer}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		input   string
		want    syscall.Signal
		wantErr bool
	}{
		{input: "SIGUSR1", want: syscall.SIGUSR1},
		{input: "usr2", want: syscall.SIGUSR2},
		{input: "10", want: syscall.Signal(10)},
		{input: "SIGRTMIN+1", want: syscall.Signal(35)},
		{input: "SIGRTMIN+3", want: syscall.Signal(SigRTMin + 3)},
		{input: "SIGRTMAX-1", want: syscall.Signal(SigRTMax - 1)},
		{input: "SIGRTMAX+1", wantErr: true},
		{input: "SIGRTMIN", wantErr: true},
		{input: "32", wantErr: true},
		{input: "33", wantErr: true},
		{input: "34", wantErr: true},
		{input: "SIGURG", wantErr: true},
		{input: "SIGINT", wantErr: true},
		{input: "term", wantErr: true},
		{input: "SIGSTOP", wantErr: true},
		{input: "", wantErr: true},
		{input: "SIGNOPE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSignal(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSignal(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSignal(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSignal_Defaults(t *testing.T) {
	sig, err := ParseSignal(DefaultSignal)
	if err != nil || sig != syscall.SIGUSR1 {
		t.Errorf("ParseSignal(%q) = %d, %v", DefaultSignal, sig, err)
	}
	tsig, err := ParseSignal(DefaultTimerSignal)
	if err != nil {
		t.Fatalf("ParseSignal(%q) error = %v", DefaultTimerSignal, err)
	}
	if tsig <= lastRuntimeReserved {
		t.Errorf("default timer signal %d is reserved by the runtime", tsig)
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		expr    string
		metric  string
		op      string
		value   time.Duration
		wantErr bool
	}{
		{expr: "max < 200us", metric: "max", op: "<", value: 200 * time.Microsecond},
		{expr: "P99<=1ms", metric: "p99", op: "<=", value: time.Millisecond},
		{expr: "min > -50us", metric: "min", op: ">", value: -50 * time.Microsecond},
		{expr: "stddev != 0", metric: "stddev", op: "!=", value: 0},
		{expr: "max", wantErr: true},
		{expr: "p95 < 1ms", wantErr: true},
		{expr: "avg < fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			th, err := ParseThreshold(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseThreshold(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if th.Metric != tt.metric || th.Op != tt.op || th.Value != tt.value {
				t.Errorf("ParseThreshold(%q) = %+v", tt.expr, th)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	errs := &ValidationErrors{}
	if errs.HasErrors() {
		t.Error("empty ValidationErrors reports errors")
	}
	errs.Add("iterations", "must be positive")
	errs.Add("", "general problem")

	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("Error() = %q, should count errors", msg)
	}
	if !strings.Contains(msg, "field 'iterations'") {
		t.Errorf("Error() = %q, should name the field", msg)
	}
}

func TestValidationError_Single(t *testing.T) {
	errs := &ValidationErrors{}
	errs.Add("clock", "unknown clock")
	if got := errs.Error(); got != "validation error on field 'clock': unknown clock" {
		t.Errorf("Error() = %q", got)
	}
}
