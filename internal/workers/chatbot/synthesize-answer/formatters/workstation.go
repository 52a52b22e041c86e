package formatters

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fleet-chatbot/internal/common/extract"
	"fleet-chatbot/internal/models"
)

const maxRecentUsers = 10

// WorkstationDetails answers the workstation fleet questions. The first set
// flag in the order last contact, software update, most departments, latest
// IP wins; with none set the unoccupied report is returned.
func WorkstationDetails(rows []models.WorkstationRow, req Request) string {
	md := req.Metadata
	switch {
	case md.Flag(models.KeyLastContact):
		return lastContact(rows, req.Now.Location())
	case md.Flag(models.KeySoftwareUpToDate):
		return softwareUpdate(rows, extract.Serial(req.Query))
	case md.Flag(models.KeyMostDepartments):
		return mostDepartments(rows)
	case md.Flag(models.KeyLatestIP):
		return latestIP(rows, extract.Serial(req.Query))
	default:
		return unoccupied(rows)
	}
}

func lastContact(rows []models.WorkstationRow, loc *time.Location) string {
	var latest time.Time
	found := false
	for _, row := range rows {
		t, ok := parseTimestamp(row.LastPostDateUTC.Value, loc)
		if !ok {
			continue
		}
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	if !found {
		return "Based on the provided data, there is no workstation with recent contact."
	}
	return fmt.Sprintf("The most recent contact with a workstation was at %s.", bold(latest.Format("03:04 PM on January 02, 2006")))
}

func findWorkstation(rows []models.WorkstationRow, name string) (models.WorkstationRow, bool) {
	if name == "" {
		return models.WorkstationRow{}, false
	}
	for _, row := range rows {
		if row.Workstation.Is(name) {
			return row, true
		}
	}
	return models.WorkstationRow{}, false
}

func softwareUpdate(rows []models.WorkstationRow, name string) string {
	const noInfo = "The provided data does not contain information about software updates for any workstations."
	if _, ok := findWorkstation(rows, name); ok {
		return fmt.Sprintf("%s Therefore, I cannot determine if workstation %s's software is up to date.", noInfo, bold(name))
	}
	return noInfo
}

func mostDepartments(rows []models.WorkstationRow) string {
	if len(rows) == 0 {
		return "Based on the provided data, there are no departments with workstation data."
	}

	counter := newOrderedCounter()
	for _, row := range rows {
		counter.add(row.DepartmentAssigned.Or(unassigned))
	}

	departments := make([]string, 0, len(counter.order))
	for _, dept := range counter.order {
		if !strings.EqualFold(dept, unassigned) {
			departments = append(departments, dept)
		}
	}
	sort.SliceStable(departments, func(i, j int) bool {
		return counter.counts[departments[i]] > counter.counts[departments[j]]
	})

	items := make([]string, len(departments))
	for i, dept := range departments {
		items[i] = fmt.Sprintf("%s: %s", text(dept), plural(counter.counts[dept], "workstation"))
	}
	return "Based on the provided data, the departments with the most workstations are:\n\n" +
		bulletList(items) +
		"\n\nNote that many workstations are assigned to 'Unassigned' department."
}

func latestIP(rows []models.WorkstationRow, name string) string {
	row, ok := findWorkstation(rows, name)
	if !ok {
		return fmt.Sprintf("The latest IP address for workstation %s is not available in the provided data.", bold(name))
	}
	return fmt.Sprintf("Info for workstation %s:<br>IP Address: %s<br>MAC Address: %s",
		bold(name), text(row.IP.Or(notApplicable)), text(row.DeviceMAC.Or(notApplicable)))
}

func unoccupied(rows []models.WorkstationRow) string {
	var names []string
	for _, row := range rows {
		if row.DepartmentAssigned.Is(unassigned) && row.Location.Is(unassigned) {
			names = append(names, text(row.Workstation.Or(notApplicable)))
		}
	}
	if len(names) == 0 {
		return "No, based on the provided data, there are no unoccupied workstations."
	}
	return fmt.Sprintf("Yes, based on the provided data, there are %d unoccupied workstations.", len(names)) + bulletList(names)
}

// UserHistory lists the users of the workstation named in the query. With
// is_count_user set only the most recent users are listed.
func UserHistory(rows []models.WorkstationUserRow, req Request) string {
	if len(rows) == 0 {
		return msgNoData
	}
	serial := extract.Serial(req.Query)
	if serial == "" {
		return msgMissingWSID
	}
	id, err := strconv.ParseInt(serial, 10, 64)
	if err != nil {
		return msgMissingWSID
	}

	var matched []models.WorkstationUserRow
	for _, row := range rows {
		if n, ok := row.WorkstationUserID.Int(); ok && n == id {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return "We have no data regarding the provided workstation."
	}

	if req.Metadata.Flag(models.KeyCountUser) {
		sort.SliceStable(matched, func(i, j int) bool {
			return uniqueIDLess(matched[j].UniqueID, matched[i].UniqueID)
		})
		if len(matched) > maxRecentUsers {
			matched = matched[:maxRecentUsers]
		}
	}

	names := make([]string, len(matched))
	for i, row := range matched {
		names[i] = text(row.Username.Or("(empty username)"))
	}
	return "The following user(s) have previously used this workstation:" + bulletList(names)
}

// uniqueIDLess orders ids numerically when both are integers and as text otherwise.
func uniqueIDLess(a, b models.Text) bool {
	an, aErr := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 64)
	bn, bErr := strconv.ParseInt(strings.TrimSpace(b.Value), 10, 64)
	if aErr == nil && bErr == nil {
		return an < bn
	}
	return a.Value < b.Value
}

// EnvoyWorkstations lists workstations with the Med Bin enabled.
func EnvoyWorkstations(rows []models.EnvoyWorkstationRow, _ Request) string {
	if len(rows) == 0 {
		return "No workstation details available."
	}

	var items []string
	for _, row := range rows {
		if !row.MedbinEnabled.Equals(1) {
			continue
		}
		timeout := notApplicable
		if row.MedbinLockTimeout.Valid && row.MedbinLockTimeout.Value > 0 {
			timeout = row.MedbinLockTimeout.String()
		}
		items = append(items, fmt.Sprintf("<b>%s (%s)</b> : Med Bin Enabled = YES, Lock Timeout = %s",
			text(row.Workstation.Or(notApplicable)), text(row.Description.Or(notApplicable)), bold(timeout)))
	}
	if len(items) == 0 {
		return "There is no workstation with Med Bin enabled."
	}
	return bulletList(items)
}

// WorkstationHistory reports how many workstations are online, or the total
// available when workstation_online is explicitly false.
func WorkstationHistory(rows []models.WorkstationHistoryRow, req Request) string {
	if len(rows) == 0 {
		return "No workstation history available."
	}
	first := rows[0]
	if online, ok := models.ParseFlag(req.Metadata.Value(models.KeyWorkstationOnline)); ok && !online {
		return fmt.Sprintf("We have %s workstations.", bold(first.TotalAvailable.Or(notApplicable)))
	}
	return fmt.Sprintf("Currently, %s workstations are online.", bold(first.NumOnline.Or(notApplicable)))
}

// DrawerLog reports who opened the Med Bin drawers of a workstation on the
// date named in the query. A time in the query narrows the match.
func DrawerLog(rows []models.DrawerLogRow, req Request) string {
	if len(rows) == 0 {
		return msgNoDataForQuery
	}
	serial := extract.Serial(req.Query)
	date := extract.Date(req.Query)
	if serial == "" || date == "" {
		return "Kindly provide a workstation id and a date."
	}
	loc := req.Now.Location()
	day, ok := parseDay("01/02/2006", date, loc)
	if !ok {
		return fmt.Sprintf("The date %s is not valid.", bold(date))
	}
	clock := extract.Time(req.Query)

	var match *models.DrawerLogRow
	for i := range rows {
		row := &rows[i]
		if !row.SerialNo.Is(serial) {
			continue
		}
		at, ok := parseTimestamp(row.LocalTime.Value, loc)
		if !ok || !sameDay(at, day) {
			continue
		}
		if clock != "" && at.Format("15:04") == clock {
			match = row
			break
		}
		if match == nil {
			match = row
		}
	}
	if match == nil {
		return fmt.Sprintf("No drawer access was found for workstation %s on %s.", bold(serial), bold(date))
	}
	return fmt.Sprintf("The MedBins of %s were accessed on %s by %s %s at %s. The following drawers were accessed: %s",
		bold(serial), bold(date),
		bold(match.FirstName.Or(notApplicable)), bold(match.LastName.Or(notApplicable)),
		bold(match.LocalTime.Value), bold(match.Drawer.Or(notApplicable)),
	)
}
