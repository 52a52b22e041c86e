// Package formatters renders dataset rows into chatbot answers. Every
// formatter is pure: the same rows, query text, metadata and clock reading
// always produce the same HTML snippet.
package formatters

import (
	"time"

	"fleet-chatbot/internal/models"
)

// Intent identifies the formatter that answers a classified question.
type Intent int

const (
	IntentNone Intent = iota
	IntentWorkstationLocation
	IntentAssetLocation
	IntentDeviceLocation
	IntentAllAssetsLocation
	IntentUserHistory
	IntentBatteryReplacement
	IntentWorkstationDetails
	IntentBatteryBrands
	IntentWarrantyExpiry
	IntentAssetReporting
	IntentForgotPassword
	IntentEnvoyWorkstations
	IntentWorkstationHistory
	IntentChargerCount
	IntentBatteryHealthCount
	IntentDecommissionedAssets
	IntentHighestUsage
	IntentOldestAsset
	IntentBatteryCharge
	IntentBusiestDay
	IntentDrawerLog
	IntentPowerOffLocation
)

var intentNames = map[Intent]string{
	IntentNone:                 "none",
	IntentWorkstationLocation:  "workstation_location",
	IntentAssetLocation:        "asset_location",
	IntentDeviceLocation:       "device_location",
	IntentAllAssetsLocation:    "all_assets_location",
	IntentUserHistory:          "user_history",
	IntentBatteryReplacement:   "battery_replacement",
	IntentWorkstationDetails:   "workstation_details",
	IntentBatteryBrands:        "battery_brands",
	IntentWarrantyExpiry:       "warranty_expiry",
	IntentAssetReporting:       "asset_reporting",
	IntentForgotPassword:       "forgot_password",
	IntentEnvoyWorkstations:    "envoy_workstations",
	IntentWorkstationHistory:   "workstation_history",
	IntentChargerCount:         "charger_count",
	IntentBatteryHealthCount:   "battery_health_count",
	IntentDecommissionedAssets: "decommissioned_assets",
	IntentHighestUsage:         "highest_usage",
	IntentOldestAsset:          "oldest_asset",
	IntentBatteryCharge:        "battery_charge",
	IntentBusiestDay:           "busiest_day",
	IntentDrawerLog:            "drawer_log",
	IntentPowerOffLocation:     "power_off_location",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// dispatch maps every formatter-bearing metadata key to its intent.
// is_userid and is_siteid only drive parameter binding and are absent.
var dispatch = map[models.MetadataKey]Intent{
	models.KeyWorkstationLocation: IntentWorkstationLocation,
	models.KeyAssetLocation:       IntentAssetLocation,
	models.KeyDeviceLocation:      IntentDeviceLocation,
	models.KeyAllAssetsLocation:   IntentAllAssetsLocation,
	models.KeyCountUser:           IntentUserHistory,
	models.KeySubject:             IntentBatteryReplacement,
	models.KeyLastContact:         IntentWorkstationDetails,
	models.KeyMostDepartments:     IntentWorkstationDetails,
	models.KeyLatestIP:            IntentWorkstationDetails,
	models.KeySoftwareUpToDate:    IntentWorkstationDetails,
	models.KeyUnoccupied:          IntentWorkstationDetails,
	models.KeyBatteryBrands:       IntentBatteryBrands,
	models.KeyExpire:              IntentWarrantyExpiry,
	models.KeyOnlineOffline:       IntentAssetReporting,
	models.KeyForgotPassword:      IntentForgotPassword,
	models.KeyEnvoyWorkstation:    IntentEnvoyWorkstations,
	models.KeyWorkstationOnline:   IntentWorkstationHistory,
	models.KeyChargerDetails:      IntentChargerCount,
	models.KeyBatteryHealth:       IntentBatteryHealthCount,
	models.KeyDecommissioned:      IntentDecommissionedAssets,
	models.KeyHighestUsage:        IntentHighestUsage,
	models.KeyOldestAsset:         IntentOldestAsset,
	models.KeyBatteryCharge:       IntentBatteryCharge,
	models.KeyBusiestDayWeek:      IntentBusiestDay,
	models.KeyWorkstationLog:      IntentDrawerLog,
	models.KeyWorkstationPowerOff: IntentPowerOffLocation,
}

// IntentFor returns the intent registered for key.
func IntentFor(key models.MetadataKey) (Intent, bool) {
	intent, ok := dispatch[key]
	return intent, ok
}

// Resolve selects the intent for a classified answer. The label must name an
// allowed dataset; the first metadata key, in received order, that has a
// registered formatter decides the intent.
func Resolve(label string, md models.Metadata) (Intent, bool) {
	if _, ok := models.LookupDataset(label); !ok {
		return IntentNone, false
	}
	for _, entry := range md {
		key, known := models.ParseMetadataKey(entry.Key)
		if !known {
			continue
		}
		if intent, ok := dispatch[key]; ok {
			return intent, true
		}
	}
	return IntentNone, false
}

// Request carries the non-row inputs of a formatter.
type Request struct {
	Query    string
	Metadata models.Metadata
	Now      time.Time
}

type formatter func(rs models.ResultSet, req Request) (string, int)

// typed decodes the result set into the formatter's row record once.
func typed[T any](fn func(rows []T, req Request) string) formatter {
	return func(rs models.ResultSet, req Request) (string, int) {
		rows, malformed := models.DecodeRows[T](rs)
		return fn(rows, req), malformed
	}
}

var formatters = map[Intent]formatter{
	IntentWorkstationLocation:  typed(WorkstationLocation),
	IntentAssetLocation:        typed(MostUsedAssets),
	IntentDeviceLocation:       typed(DeviceLocation),
	IntentAllAssetsLocation:    typed(AllAssetsLocation),
	IntentUserHistory:          typed(UserHistory),
	IntentBatteryReplacement:   typed(BatteryReplacement),
	IntentWorkstationDetails:   typed(WorkstationDetails),
	IntentBatteryBrands:        typed(BatteryBrands),
	IntentWarrantyExpiry:       typed(WarrantyExpiry),
	IntentAssetReporting:       typed(AssetReporting),
	IntentForgotPassword:       func(models.ResultSet, Request) (string, int) { return ForgotPassword(), 0 },
	IntentEnvoyWorkstations:    typed(EnvoyWorkstations),
	IntentWorkstationHistory:   typed(WorkstationHistory),
	IntentChargerCount:         typed(ChargerCount),
	IntentBatteryHealthCount:   typed(BatteryHealthCount),
	IntentDecommissionedAssets: typed(DecommissionedAssets),
	IntentHighestUsage:         typed(HighestUsage),
	IntentOldestAsset:          typed(OldestAsset),
	IntentBatteryCharge:        typed(BatteryCharge),
	IntentBusiestDay:           typed(BusiestDay),
	IntentDrawerLog:            typed(DrawerLog),
	IntentPowerOffLocation:     typed(PowerOffLocation),
}

// Render runs the formatter for intent over the raw result set. It returns
// the answer text and the number of rows that could not be decoded.
func Render(intent Intent, rs models.ResultSet, req Request) (string, int) {
	fn, ok := formatters[intent]
	if !ok {
		return "", 0
	}
	return fn(rs, req)
}
