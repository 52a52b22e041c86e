package formatters

import (
	"fmt"
	"strings"
	"time"

	"fleet-chatbot/internal/common/extract"
	"fleet-chatbot/internal/models"
)

const (
	replacementWindow = 90 * 24 * time.Hour
	// batteryEndDateLayout is the M-d-yy form of the battery warranty end date.
	batteryEndDateLayout = "1-2-06"
)

// BatteryReplacement lists active batteries whose warranty ends within the
// next 90 days.
func BatteryReplacement(rows []models.WarrantyRow, req Request) string {
	if len(rows) == 0 {
		return headedList(msgBatteriesExpire)
	}

	now := req.Now
	horizon := now.Add(replacementWindow)

	var serials []string
	for _, row := range rows {
		if !row.WarrantyStatus.Is("Active") || row.Serial.Blank() {
			continue
		}
		end, ok := parseDay(batteryEndDateLayout, row.WarrantyEndDate.Value, now.Location())
		if !ok || end.Before(now) || end.After(horizon) {
			continue
		}
		serials = append(serials, row.Serial.Value)
	}

	if len(serials) == 0 {
		return headedList(msgBatteriesExpire)
	}
	return headedList("Based on the provided data, the following batteries need replacement in the next 90 days:", serials...)
}

// distinctMatching returns the distinct values accepted by match, in first-seen order.
func distinctMatching(values []string, match func(string) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if !match(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// BatteryBrands summarizes the warranty models of the MobiusPower and
// PowerSonic batteries in use.
func BatteryBrands(rows []models.WarrantyRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoBatteryData
	}

	descs := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.WarrantyDesc.Valid {
			descs = append(descs, row.WarrantyDesc.Value)
		}
	}
	mobius := distinctMatching(descs, func(s string) bool {
		return strings.Contains(s, "MOBIUS")
	})
	powerSonic := distinctMatching(descs, func(s string) bool {
		return strings.Contains(strings.ToLower(s), "powersonic")
	})

	var b strings.Builder
	b.WriteString("<br>The batteries in use are a mix of MobiusPower and PowerSonic batteries. ")
	fmt.Fprintf(&b, "MobiusPower batteries include models with the following warranties: %s. ", strings.Join(mobius, ", "))
	fmt.Fprintf(&b, "PowerSonic batteries include models with the following warranties: %s.", strings.Join(powerSonic, ", "))
	return b.String()
}

// BatteryCharge reports the charge level of the battery whose serial is named in the query.
func BatteryCharge(rows []models.BatteryChargeRow, req Request) string {
	if len(rows) == 0 {
		return msgNoBatteryData
	}
	serial := extract.Serial(req.Query)
	if serial == "" {
		return "The workstation serial number is invalid or not provided."
	}
	for _, row := range rows {
		if row.Serial.Is(serial) {
			return fmt.Sprintf("The battery %s has a charge level of %s and was last used on %s",
				bold(row.Description.Value), bold(row.ChargeLevel.String()), bold(row.LastUsed.Value))
		}
	}
	return fmt.Sprintf("The workstation %s was not last used.", bold(serial))
}

// BatteryHealthCount reports the number of batteries.
func BatteryHealthCount(rows []models.BatteryHealthRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoData
	}
	return fmt.Sprintf("We have %s batteries.", bold(fmt.Sprint(len(rows))))
}
