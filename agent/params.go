package agent

import (
	"sort"
	"strings"

	"github.com/nstehr/helm/model"
)

// Keys owned by the built-in library start with KeyPrefix. The store itself
// accepts any key.
const (
	KeyPrefix = "helm_"
	// TransientPrefix marks state that is dropped whenever the ship leaves
	// normal space.
	TransientPrefix = KeyPrefix + "transient_"

	FlagBehaviourLogging  = KeyPrefix + "flag_behaviourLogging"
	KeyScanResults        = KeyPrefix + "scanResults"
	KeyScanResultSpecific = KeyPrefix + "scanResultSpecific"
)

// Parameter returns the stored value, or nil if key was never set.
func (a *Agent) Parameter(key string) any { return a.params[key] }

// SetParameter stores v under key. A nil v removes the key.
func (a *Agent) SetParameter(key string, v any) {
	if v == nil {
		delete(a.params, key)
		return
	}
	a.params[key] = v
}

func (a *Agent) HasParameter(key string) bool {
	_, ok := a.params[key]
	return ok
}

// Number reads a numeric parameter. Absent or non-numeric values read as
// (0, false).
func (a *Agent) Number(key string) (float64, bool) {
	return toFloat(a.params[key])
}

// Flag reads a boolean parameter; anything but a stored true is false.
func (a *Agent) Flag(key string) bool {
	b, _ := a.params[key].(bool)
	return b
}

// ParameterKeys lists the stored keys in sorted order.
func (a *Agent) ParameterKeys() []string {
	keys := make([]string, 0, len(a.params))
	for k := range a.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResetTransient clears every key under TransientPrefix.
func (a *Agent) ResetTransient() {
	for k := range a.params {
		if strings.HasPrefix(k, TransientPrefix) {
			delete(a.params, k)
		}
	}
}

// CheckScanner looks through the last scan for the first ship matching pred
// and remembers it under KeyScanResultSpecific.
func (a *Agent) CheckScanner(pred func(*model.Ship) bool) bool {
	scan, _ := a.params[KeyScanResults].([]*model.Ship)
	if pred == nil {
		return false
	}
	for _, s := range scan {
		if pred(s) {
			a.params[KeyScanResultSpecific] = s
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
