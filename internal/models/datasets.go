// internal/models/datasets.go
package models

import (
	"sort"
	"strings"
)

// Dataset names a stored procedure on the data backend.
type Dataset string

const (
	DatasetAssetTracking           Dataset = "dbo.prcDashAssetTracking"
	DatasetWorkstationUsers        Dataset = "dbo.PrcGetWorkstationUsers"
	DatasetBatteryWarranties       Dataset = "dbo.prcDashGetBatteryWarranties"
	DatasetWorkstations            Dataset = "dbo.prcDashGetWorkstations"
	DatasetBattery                 Dataset = "dbo.prcDashGetBattery"
	DatasetWorkstationWarranties   Dataset = "dbo.prcDashGetWorkstationWarranties"
	DatasetAssetsReporting         Dataset = "dbo.prcDashAssetsReporting"
	DatasetUsersBySite             Dataset = "dbo.prcDashGetUsersBySite"
	DatasetEnvoyWorkstations       Dataset = "dbo.prcDashGetEnvoyWorkstations"
	DatasetOnlineWorkstationCounts Dataset = "dbo.prcGetOnlineWorkstationCountHistory"
	DatasetChargers                Dataset = "dbo.prcDashGetCharger"
	DatasetBatteryHealthLevels     Dataset = "dbo.spDashboardBatteryHealthLevels"
	DatasetAssetSearchList         Dataset = "dbo.prcDashGetAssetSearchList"
	DatasetHighestUsage            Dataset = "reporting.ROI_HighestUsage"
	DatasetOldestAsset             Dataset = "dbo.ChatBot_OldestAsset"
	DatasetBusiestDayWeek          Dataset = "reporting.ROI_BusiestDayWeek"
	DatasetDrawerLog               Dataset = "dbo.prcDashDrawerLog"
)

// AllowedDatasets is the closed set of datasets a question may be answered from.
var AllowedDatasets = []Dataset{
	DatasetAssetTracking,
	DatasetWorkstationUsers,
	DatasetBatteryWarranties,
	DatasetWorkstations,
	DatasetBattery,
	DatasetWorkstationWarranties,
	DatasetAssetsReporting,
	DatasetUsersBySite,
	DatasetEnvoyWorkstations,
	DatasetOnlineWorkstationCounts,
	DatasetChargers,
	DatasetBatteryHealthLevels,
	DatasetAssetSearchList,
	DatasetHighestUsage,
	DatasetOldestAsset,
	DatasetBusiestDayWeek,
	DatasetDrawerLog,
}

var allowedByName = func() map[string]Dataset {
	m := make(map[string]Dataset, len(AllowedDatasets))
	for _, d := range AllowedDatasets {
		m[strings.ToLower(string(d))] = d
	}
	return m
}()

// LookupDataset matches label against the allow-list ignoring case and
// returns the canonical dataset name.
func LookupDataset(label string) (Dataset, bool) {
	d, ok := allowedByName[strings.ToLower(label)]
	return d, ok
}

// Schema and Name split a qualified dataset name. Unqualified names use dbo.
func (d Dataset) Schema() string {
	if i := strings.Index(string(d), "."); i >= 0 {
		return string(d)[:i]
	}
	return "dbo"
}

func (d Dataset) Name() string {
	if i := strings.Index(string(d), "."); i >= 0 {
		return string(d)[i+1:]
	}
	return string(d)
}

// Wire names of the bound parameters.
const (
	SelectorParameter = "storedProcName"
	ParamUserID       = "@UserId"
	ParamSiteID       = "@SiteId"
)

// DatasetQuery is one request to the data backend.
type DatasetQuery struct {
	Dataset    Dataset           `json:"dataset"`
	Parameters map[string]string `json:"parameters"`
}

// Payload is the flat body posted to the data backend: the bound parameters
// plus the dataset selector.
func (q DatasetQuery) Payload() map[string]string {
	body := make(map[string]string, len(q.Parameters)+1)
	for k, v := range q.Parameters {
		body[k] = v
	}
	body[SelectorParameter] = string(q.Dataset)
	return body
}

// Fingerprint is a stable identity for the query, independent of map order.
func (q DatasetQuery) Fingerprint() string {
	keys := make([]string, 0, len(q.Parameters))
	for k := range q.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.ToLower(string(q.Dataset)))
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(q.Parameters[k])
	}
	return b.String()
}
