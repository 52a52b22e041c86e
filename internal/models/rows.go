// internal/models/rows.go
package models

import "encoding/json"

// ResultSet is the raw row array returned by the data backend. Rows are
// decoded into one of the record types below by the formatter that owns them.
type ResultSet []json.RawMessage

// DecodeRows decodes every element of rs into T. Elements that are not JSON
// objects are skipped and counted in malformed.
func DecodeRows[T any](rs ResultSet) (rows []T, malformed int) {
	rows = make([]T, 0, len(rs))
	for _, raw := range rs {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			malformed++
			continue
		}
		rows = append(rows, row)
	}
	return rows, malformed
}

// AssetTrackingRow is a row of dbo.prcDashAssetTracking.
type AssetTrackingRow struct {
	SerialNo     Text `json:"SerialNo"`
	AssetNumber  Text `json:"AssetNumber"`
	CartSerial   Text `json:"CartSerial"`
	Description  Text `json:"Description"`
	Type         Text `json:"Type"`
	Location     Text `json:"Location"`
	Department   Text `json:"Department"`
	Floor        Text `json:"Floor"`
	Wing         Text `json:"Wing"`
	LastReported Text `json:"LastReported"`
}

// WorkstationRow is a row of dbo.prcDashGetWorkstations.
type WorkstationRow struct {
	Workstation         Text `json:"Workstation"`
	AssetNumber         Text `json:"AssetNumber"`
	Description         Text `json:"Description"`
	DepartmentAssigned  Text `json:"Department Assigned"`
	DepartmentReporting Text `json:"Department Reporting"`
	FloorAssigned       Text `json:"Floor Assigned"`
	WingAssigned        Text `json:"Wing Assigned"`
	Location            Text `json:"Location"`
	IP                  Text `json:"IP"`
	DeviceMAC           Text `json:"DeviceMAC"`
	LastReported        Text `json:"Last Reported"`
	LastPostDateUTC     Text `json:"LastPostDateUTC"`
}

// WarrantyRow is a row of the battery and workstation warranty datasets.
type WarrantyRow struct {
	Serial           Text `json:"Serial"`
	Description      Text `json:"Description"`
	WarrantyDesc     Text `json:"WarrantyDesc"`
	WarrantyStatus   Text `json:"WarrantyStatus"`
	WarrantyEndDate  Text `json:"WarrantyEndDate"`
	LastCommunicated Text `json:"LastCommunicated"`
}

// WorkstationUserRow is a row of dbo.PrcGetWorkstationUsers.
type WorkstationUserRow struct {
	SiteName          Text   `json:"SiteName"`
	WorkstationUserID Number `json:"WorkstationUserID"`
	Username          Text   `json:"Username"`
	FirstName         Text   `json:"FirstName"`
	LastName          Text   `json:"LastName"`
	UniqueID          Text   `json:"UniqueID"`
}

// BatteryChargeRow is a row of dbo.prcDashGetBattery.
type BatteryChargeRow struct {
	Serial          Text   `json:"Serial"`
	Description     Text   `json:"Description"`
	LastUsed        Text   `json:"LastUsed"`
	ChargeLevel     Number `json:"ChargeLevel"`
	CapacityHealth  Number `json:"CapacityHealth"`
	CycleCount      Number `json:"CycleCount"`
	LastPostDateUTC Text   `json:"LastPostDateUTC"`
}

// BatteryHealthRow is a row of dbo.spDashboardBatteryHealthLevels.
type BatteryHealthRow struct {
	Symbol       Text   `json:"Symbol"`
	Department   Text   `json:"Department"`
	LastReported Text   `json:"LastReported"`
	Count        Number `json:"cnt"`
}

// ChargerRow is a row of dbo.prcDashGetCharger.
type ChargerRow struct {
	Charger    Text `json:"Charger"`
	Asset      Text `json:"Asset"`
	Department Text `json:"Department"`
	Floor      Text `json:"Floor"`
	Wing       Text `json:"Wing"`
	Type       Text `json:"Type"`
	Status     Text `json:"Status"`
}

// EnvoyWorkstationRow is a row of dbo.prcDashGetEnvoyWorkstations.
type EnvoyWorkstationRow struct {
	Workstation       Text   `json:"Workstation"`
	Description       Text   `json:"Description"`
	AssetNumber       Text   `json:"AssetNumber"`
	MedbinEnabled     Number `json:"MedbinEnabled"`
	MedbinLockTimeout Number `json:"MedbinLockTimeout"`
}

// AssetDetailsRow is a row of dbo.prcDashGetAssetSearchList.
type AssetDetailsRow struct {
	SerialNo    Text `json:"SerialNo"`
	IP          Text `json:"IP"`
	AssetNumber Text `json:"AssetNumber"`
	DeviceMAC   Text `json:"DeviceMAC"`
	CartSerial  Text `json:"CartSerial"`
}

// OldestAssetRow is a row of dbo.ChatBot_OldestAsset.
type OldestAssetRow struct {
	SerialNo            Text `json:"SerialNo"`
	Description         Text `json:"Description"`
	FriendlyDescription Text `json:"FriendlyDescription"`
	Floor               Text `json:"Floor"`
	Wing                Text `json:"Wing"`
	LastPostDateUTC     Text `json:"LastPostDateUTC"`
}

// AssetsReportingRow is a row of dbo.prcDashAssetsReporting.
type AssetsReportingRow struct {
	AssetsReporting    Text `json:"AssetsReporting"`
	AssetsTotal        Text `json:"AssetsTotal"`
	AssetsReportingPct Text `json:"AssetsReportingPct"`
}

// WorkstationHistoryRow is a row of dbo.prcGetOnlineWorkstationCountHistory.
type WorkstationHistoryRow struct {
	NumOnline      Text `json:"NumOnline"`
	TotalAvailable Text `json:"TotalAvailable"`
}

// HighestUsageRow is a row of reporting.ROI_HighestUsage.
type HighestUsageRow struct {
	HighestUsed Number `json:"highestUsed"`
}

// BusiestDayRow is a row of reporting.ROI_BusiestDayWeek.
type BusiestDayRow struct {
	PeakDayName Text `json:"PeakDayName"`
}

// DrawerLogRow is a row of dbo.prcDashDrawerLog.
type DrawerLogRow struct {
	SerialNo  Text `json:"SerialNo"`
	LocalTime Text `json:"LocalTime"`
	FirstName Text `json:"FirstName"`
	LastName  Text `json:"LastName"`
	Drawer    Text `json:"Drawer"`
}
