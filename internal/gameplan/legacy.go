package gameplan

import (
	"encoding/json"
	"fmt"
)

// The editor used to label pass depths one step deeper than the stored record:
// its "Short" is the stored Quick, its "Medium" the stored Short and its
// play-action "Medium" the stored PALong.
var legacyPassKeys = map[string]string{
	"PassShort":    "PassQuick",
	"PassMedium":   "PassShort",
	"PassPAMedium": "PassPALong",
}

var persistedPassKeys = invert(legacyPassKeys)

// TranslateLegacyPassFields renames legacy editor pass keys to persisted names.
// A renamed key wins over a persisted key already present under the same name.
func TranslateLegacyPassFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	return rename(raw, legacyPassKeys)
}

// ToLegacyPassFields is the inverse of TranslateLegacyPassFields.
func ToLegacyPassFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	return rename(raw, persistedPassKeys)
}

func rename(raw map[string]json.RawMessage, table map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		if _, renamed := table[k]; !renamed {
			out[k] = v
		}
	}
	for k, v := range raw {
		if to, ok := table[k]; ok {
			out[to] = v
		}
	}
	return out
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// DecodeRecord decodes a flat JSON record. With legacy set, legacy pass keys are
// renamed before decoding.
func DecodeRecord(b []byte, legacy bool) (*Gameplan, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if legacy {
		raw = TranslateLegacyPassFields(raw)
	}
	var g Gameplan
	if err := g.set(raw, nil); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &g, nil
}
