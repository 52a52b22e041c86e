package formatters

import (
	"fmt"
	"strings"

	"fleet-chatbot/internal/common/extract"
	"fleet-chatbot/internal/models"
)

// excludedAssetNumbers are placeholder asset numbers that never count as assets.
var excludedAssetNumbers = []string{"NOT ASSIGNED", notApplicable}

func isPlaceholderAsset(assetNumber models.Text) bool {
	for _, placeholder := range excludedAssetNumbers {
		if assetNumber.IsFold(placeholder) {
			return true
		}
	}
	return false
}

func hasLocation(location models.Text) bool {
	return !location.Blank() && !location.IsFold(notApplicable)
}

func findAsset(rows []models.AssetTrackingRow, serial string) (models.AssetTrackingRow, bool) {
	if serial == "" {
		return models.AssetTrackingRow{}, false
	}
	for _, row := range rows {
		if row.SerialNo.Is(serial) {
			return row, true
		}
	}
	return models.AssetTrackingRow{}, false
}

// WorkstationLocation answers "where is workstation N".
func WorkstationLocation(rows []models.AssetTrackingRow, req Request) string {
	serial := extract.Serial(req.Query)
	row, ok := findAsset(rows, serial)
	if !ok {
		return fmt.Sprintf("The device %s is not located.", bold(serial))
	}
	return fmt.Sprintf("Workstation %s is located in %s, %s, on %s, %s",
		bold(row.SerialNo.Value),
		bold(row.Location.Or(notApplicable)),
		bold(row.Department.Or(notApplicable)),
		bold(row.Floor.Or(notApplicable)),
		bold(row.Wing.Or(notApplicable)),
	)
}

// DeviceLocation answers "where is device N" with floor, wing, department and,
// when known, the specific location.
func DeviceLocation(rows []models.AssetTrackingRow, req Request) string {
	serial := extract.Serial(req.Query)
	row, ok := findAsset(rows, serial)
	if !ok {
		return fmt.Sprintf("The device %s is not located.", bold(serial))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The device %s is located on Floor %s, %s Wing, in the %s Department.",
		bold(serial),
		bold(row.Floor.Or(notApplicable)),
		bold(row.Wing.Or(notApplicable)),
		bold(row.Department.Or(notApplicable)),
	)
	if hasLocation(row.Location) {
		fmt.Fprintf(&b, " Location %s.", bold(row.Location.Value))
	}
	return b.String()
}

// AllAssetsLocation lists every real asset with a known location.
func AllAssetsLocation(rows []models.AssetTrackingRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoLocationData
	}

	var items []string
	for _, row := range rows {
		if isPlaceholderAsset(row.AssetNumber) || !hasLocation(row.Location) {
			continue
		}
		items = append(items, fmt.Sprintf("Asset: %s, Location: %s", text(row.AssetNumber.Or(notApplicable)), text(row.Location.Value)))
	}
	if len(items) == 0 {
		return "No assets with a known location were found."
	}
	return "Kindly check given below details of all Assets and Current Location : " + bulletList(items)
}

// orderedCounter counts keys and remembers first-seen order.
type orderedCounter struct {
	order  []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// max returns the highest count; ties go to the key seen first.
func (c *orderedCounter) max() (string, int) {
	best, bestCount := "", 0
	for _, key := range c.order {
		if n := c.counts[key]; n > bestCount {
			best, bestCount = key, n
		}
	}
	return best, bestCount
}

type floorGroup struct {
	name      string
	wingOrder []string
	wings     map[string]*orderedCounter
}

// MostUsedAssets reports the most frequently seen asset of every wing,
// grouped by floor. Floors and wings named Unassigned are skipped.
func MostUsedAssets(rows []models.AssetTrackingRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoLocationData
	}

	var floors []*floorGroup
	byName := make(map[string]*floorGroup)

	for _, row := range rows {
		if row.AssetNumber.Blank() || isPlaceholderAsset(row.AssetNumber) {
			continue
		}
		floorName := row.Floor.Or(notApplicable)
		if strings.EqualFold(floorName, unassigned) {
			continue
		}
		floor, ok := byName[floorName]
		if !ok {
			floor = &floorGroup{name: floorName, wings: make(map[string]*orderedCounter)}
			byName[floorName] = floor
			floors = append(floors, floor)
		}

		wingName := row.Wing.Or(notApplicable)
		if strings.EqualFold(wingName, unassigned) {
			continue
		}
		counter, ok := floor.wings[wingName]
		if !ok {
			counter = newOrderedCounter()
			floor.wings[wingName] = counter
			floor.wingOrder = append(floor.wingOrder, wingName)
		}
		counter.add(row.AssetNumber.Value)
	}

	if len(floors) == 0 {
		return "No assets were found on an assigned floor."
	}

	var b strings.Builder
	for _, floor := range floors {
		fmt.Fprintf(&b, "Floor %s:<br>", floor.name)
		for _, wing := range floor.wingOrder {
			asset, n := floor.wings[wing].max()
			fmt.Fprintf(&b, "<b>Wing %s:</b> The most used asset is <b>'%s'</b> with <b>%d</b> occurrences.<br>", text(wing), text(asset), n)
		}
	}
	return b.String()
}

// PowerOffLocation reports the last known location of a workstation.
func PowerOffLocation(rows []models.AssetTrackingRow, req Request) string {
	serial := extract.Serial(req.Query)
	if serial == "" {
		return msgMissingWSID
	}
	if len(rows) == 0 {
		return msgNoDataForQuery
	}

	row, ok := findAsset(rows, serial)
	if !ok {
		return fmt.Sprintf("The last known location of workstation %s is not available", serial)
	}
	return fmt.Sprintf("The last known location of workstation %s was &lt;%s, %s, %s, %s&gt; LastReportDate of %s",
		bold(serial),
		bold(row.Department.Or(notApplicable)),
		bold(row.Floor.Or(notApplicable)),
		bold(row.Wing.Or(notApplicable)),
		bold(row.Location.Or(notApplicable)),
		bold(row.LastReported.Or(notApplicable)),
	)
}
