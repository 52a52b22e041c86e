// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Metadata
// ==========================

func TestMetadata_UnmarshalArrayForm(t *testing.T) {
	var md Metadata
	err := json.Unmarshal([]byte(`[{"key":"is_ws_loc","value":"true"},{"key":"is_siteid","value":"true"},{"key":"is_ws_loc","value":"false"}]`), &md)
	require.NoError(t, err)

	want := Metadata{{Key: "is_ws_loc", Value: "true"}, {Key: "is_siteid", Value: "true"}}
	if diff := cmp.Diff(want, md); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadata_UnmarshalObjectFormKeepsOrder(t *testing.T) {
	var md Metadata
	err := json.Unmarshal([]byte(`{"subject":"warranty","is_expire":true,"is_siteid":"true","n":3,"empty":null}`), &md)
	require.NoError(t, err)

	assert.Equal(t, []string{"subject", "is_expire", "is_siteid", "n", "empty"}, md.Keys())
	assert.Equal(t, "warranty", md.Value(KeySubject))
	assert.Equal(t, "true", md.Value(KeyExpire))
	v, ok := md.Get("n")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	v, ok = md.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestMetadata_UnmarshalNullAndInvalid(t *testing.T) {
	var md Metadata
	require.NoError(t, json.Unmarshal([]byte(`null`), &md))
	assert.Empty(t, md)

	assert.Error(t, json.Unmarshal([]byte(`"text"`), &md))
}

func TestMetadata_Flag(t *testing.T) {
	md := NewMetadata("is_userid", " TRUE ", "is_siteid", "yes", "is_count_user", "false")

	assert.True(t, md.Flag(KeyUserID))
	assert.False(t, md.Flag(KeySiteID), "unparseable values are false")
	assert.False(t, md.Flag(KeyCountUser))
	assert.False(t, md.Flag(KeyExpire), "absent keys are false")
	assert.True(t, md.Has(KeyCountUser))
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in       string
		wantFlag bool
		wantOK   bool
	}{
		{"true", true, true},
		{"True", true, true},
		{"false", false, true},
		{"FALSE ", false, true},
		{"1", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			flag, ok := ParseFlag(tt.in)
			assert.Equal(t, tt.wantFlag, flag)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseMetadataKey(t *testing.T) {
	k, ok := ParseMetadataKey("ws_pwr_off")
	assert.True(t, ok)
	assert.Equal(t, KeyWorkstationPowerOff, k)

	_, ok = ParseMetadataKey("unknown_key")
	assert.False(t, ok)
	assert.Len(t, AllMetadataKeys, 28)
}

// ==========================
// Datasets
// ==========================

func TestLookupDataset(t *testing.T) {
	d, ok := LookupDataset("DBO.PRCDASHASSETTRACKING")
	assert.True(t, ok)
	assert.Equal(t, DatasetAssetTracking, d)

	_, ok = LookupDataset("dbo.prcBeepWorkstation")
	assert.False(t, ok)

	_, ok = LookupDataset("")
	assert.False(t, ok)
	assert.Len(t, AllowedDatasets, 17)
}

func TestDataset_SchemaAndName(t *testing.T) {
	assert.Equal(t, "reporting", DatasetHighestUsage.Schema())
	assert.Equal(t, "ROI_HighestUsage", DatasetHighestUsage.Name())
	assert.Equal(t, "dbo", Dataset("plain").Schema())
	assert.Equal(t, "plain", Dataset("plain").Name())
}

func TestDatasetQuery_PayloadAndFingerprint(t *testing.T) {
	q := DatasetQuery{
		Dataset:    DatasetAssetTracking,
		Parameters: map[string]string{ParamUserID: "u1", ParamSiteID: "7"},
	}

	assert.Equal(t, map[string]string{
		"@UserId":        "u1",
		"@SiteId":        "7",
		"storedProcName": "dbo.prcDashAssetTracking",
	}, q.Payload())
	assert.Equal(t, "dbo.prcdashassettracking|@SiteId=7|@UserId=u1", q.Fingerprint())
}

// ==========================
// Rows
// ==========================

func TestDecodeRows_LenientColumns(t *testing.T) {
	rs := ResultSet{
		json.RawMessage(`{"SerialNo":"12345","Floor":2,"Wing":null,"Location":{"nested":true}}`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{"SerialNo":67890}`),
	}

	rows, malformed := DecodeRows[AssetTrackingRow](rs)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, malformed)

	assert.Equal(t, "12345", rows[0].SerialNo.String())
	assert.Equal(t, "2", rows[0].Floor.String())
	assert.False(t, rows[0].Wing.Valid)
	assert.False(t, rows[0].Location.Valid)
	assert.Equal(t, "N/A", rows[0].Wing.Or("N/A"))
	assert.True(t, rows[1].SerialNo.Is("67890"))
}

func TestNumber_Unmarshal(t *testing.T) {
	var row EnvoyWorkstationRow
	require.NoError(t, json.Unmarshal([]byte(`{"MedbinEnabled":"1","MedbinLockTimeout":"abc"}`), &row))
	assert.True(t, row.MedbinEnabled.Equals(1))
	assert.False(t, row.MedbinLockTimeout.Valid)
	assert.Equal(t, "N/A", row.MedbinLockTimeout.Or("N/A"))
	assert.Equal(t, "85.5", NewNumber(85.5).String())
	assert.Equal(t, "85", NewNumber(85).String())
}

func TestNumber_Int(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want int64
		ok   bool
	}{
		{"whole", NewNumber(1001), 1001, true},
		{"negative", NewNumber(-7), -7, true},
		{"fractional", NewNumber(1001.5), 0, false},
		{"absent", Number{}, 0, false},
		{"out of range", NewNumber(1e19), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.n.Int()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_MarshalRoundsThroughNull(t *testing.T) {
	out, err := json.Marshal(AssetDetailsRow{SerialNo: NewText("A1")})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"SerialNo":"A1"`)
	assert.Contains(t, string(out), `"IP":null`)
}

func TestStatusCode_String(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "InternalError", StatusInternalError.String())
	assert.Equal(t, "418", StatusCode(418).String())
}
