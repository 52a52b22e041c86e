// internal/models/metadata.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MetadataKey is a classification flag attached to a knowledge-base answer.
type MetadataKey string

const (
	KeyWorkstationLocation MetadataKey = "is_ws_loc"
	KeyAssetLocation       MetadataKey = "is_asset_loc"
	KeyDeviceLocation      MetadataKey = "is_device_loc"
	KeyAllAssetsLocation   MetadataKey = "is_all_asset_loc"
	KeyCountUser           MetadataKey = "is_count_user"
	KeySubject             MetadataKey = "subject"
	KeyLastContact         MetadataKey = "is_last_contact_ws"
	KeyMostDepartments     MetadataKey = "is_most_dep_ws"
	KeyLatestIP            MetadataKey = "is_latestip_ws"
	KeySoftwareUpToDate    MetadataKey = "is_software_up_date_ws"
	KeyUnoccupied          MetadataKey = "is_unoccupied_ws"
	KeyBatteryBrands       MetadataKey = "btry_bng_usd"
	KeyExpire              MetadataKey = "is_expire"
	KeyOnlineOffline       MetadataKey = "is_online_offline"
	KeyForgotPassword      MetadataKey = "frgt_pass"
	KeyEnvoyWorkstation    MetadataKey = "envy_ws_dtl"
	KeyWorkstationOnline   MetadataKey = "workstation_online"
	KeyChargerDetails      MetadataKey = "chrg_dtl"
	KeyBatteryHealth       MetadataKey = "btry_hlth"
	KeyDecommissioned      MetadataKey = "decommissioned_dtl"
	KeyHighestUsage        MetadataKey = "hgst_usg"
	KeyOldestAsset         MetadataKey = "old_ast"
	KeyBatteryCharge       MetadataKey = "btry_chrg_dtl"
	KeyBusiestDayWeek      MetadataKey = "busist_day_week"
	KeyWorkstationLog      MetadataKey = "ws_log"
	KeyWorkstationPowerOff MetadataKey = "ws_pwr_off"
	KeyUserID              MetadataKey = "is_userid"
	KeySiteID              MetadataKey = "is_siteid"
)

// AllMetadataKeys lists every recognized key in enumeration order.
var AllMetadataKeys = []MetadataKey{
	KeyWorkstationLocation, KeyAssetLocation, KeyDeviceLocation, KeyAllAssetsLocation,
	KeyCountUser, KeySubject, KeyLastContact, KeyMostDepartments, KeyLatestIP,
	KeySoftwareUpToDate, KeyUnoccupied, KeyBatteryBrands, KeyExpire, KeyOnlineOffline,
	KeyForgotPassword, KeyEnvoyWorkstation, KeyWorkstationOnline, KeyChargerDetails,
	KeyBatteryHealth, KeyDecommissioned, KeyHighestUsage, KeyOldestAsset, KeyBatteryCharge,
	KeyBusiestDayWeek, KeyWorkstationLog, KeyWorkstationPowerOff, KeyUserID, KeySiteID,
}

var knownKeys = func() map[string]MetadataKey {
	m := make(map[string]MetadataKey, len(AllMetadataKeys))
	for _, k := range AllMetadataKeys {
		m[string(k)] = k
	}
	return m
}()

// ParseMetadataKey reports whether s names a recognized key.
func ParseMetadataKey(s string) (MetadataKey, bool) {
	k, ok := knownKeys[s]
	return k, ok
}

// ParseFlag interprets a metadata value as a boolean. Only "true" and "false"
// (any case, surrounding whitespace ignored) parse; ok is false otherwise.
func ParseFlag(value string) (flag bool, ok bool) {
	v := strings.TrimSpace(value)
	switch {
	case strings.EqualFold(v, "true"):
		return true, true
	case strings.EqualFold(v, "false"):
		return false, true
	}
	return false, false
}

// MetadataEntry is one key/value pair of classification metadata.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata is the ordered classification metadata of an answer. Keys are
// unique and keep the order in which the QA backend returned them.
type Metadata []MetadataEntry

// NewMetadata builds Metadata from alternating key/value strings.
func NewMetadata(pairs ...string) Metadata {
	var m Metadata
	for i := 0; i+1 < len(pairs); i += 2 {
		m = m.With(pairs[i], pairs[i+1])
	}
	return m
}

// With returns m with key appended. A key already present keeps its first value.
func (m Metadata) With(key, value string) Metadata {
	if _, exists := m.Get(key); exists {
		return m
	}
	return append(m, MetadataEntry{Key: key, Value: value})
}

func (m Metadata) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" when absent.
func (m Metadata) Value(key MetadataKey) string {
	v, _ := m.Get(string(key))
	return v
}

// Has reports whether key is present, whatever its value.
func (m Metadata) Has(key MetadataKey) bool {
	_, ok := m.Get(string(key))
	return ok
}

// Flag is true only when key is present and parses as true.
func (m Metadata) Flag(key MetadataKey) bool {
	v, ok := m.Get(string(key))
	if !ok {
		return false
	}
	flag, _ := ParseFlag(v)
	return flag
}

func (m Metadata) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// UnmarshalJSON accepts both wire shapes the QA backend produces: an array of
// {"key","value"} objects or a flat object. Object member order is preserved.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}

	switch data[0] {
	case '[':
		var entries []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("metadata array: %w", err)
		}
		var out Metadata
		for _, e := range entries {
			out = out.With(e.Key, scalarText(e.Value))
		}
		*m = out
		return nil
	case '{':
		return m.unmarshalObject(data)
	}
	return fmt.Errorf("metadata: unexpected JSON %q", string(data[:1]))
}

func (m *Metadata) unmarshalObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("metadata object: %w", err)
	}

	var out Metadata
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("metadata object: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata object: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("metadata value %q: %w", key, err)
		}
		out = out.With(key, scalarText(raw))
	}
	*m = out
	return nil
}

// scalarText renders a JSON scalar as plain text; strings are unquoted and
// null becomes "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
