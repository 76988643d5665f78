package reconcile

import "go-donorsync/internal/crm"

// DiffFields compares each synthesized field against the stored record and
// returns only the fields that differ. An empty result means no write is
// needed. A nil expected value differs from any non-empty stored value (an
// explicit clear).
func DiffFields(current, expected crm.Fields) crm.Fields {
	changed := crm.Fields{}
	for key, want := range expected {
		have, ok := current[key]
		if !ok {
			changed[key] = want
			continue
		}
		if !fieldEqual(have, want) {
			changed[key] = want
		}
	}
	return changed
}

func fieldEqual(have, want interface{}) bool {
	if want == nil {
		return have == nil || have == ""
	}
	if have == nil {
		return want == ""
	}

	// JSON decoding yields float64 for every number; stored structs may
	// carry other numeric kinds
	hf, hok := asFloat(have)
	wf, wok := asFloat(want)
	if hok && wok {
		return hf == wf
	}

	return have == want
}

func asFloat(v interface{}) (float64, bool) {
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
	}
	return 0, false
}
