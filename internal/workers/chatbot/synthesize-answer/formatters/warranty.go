package formatters

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fleet-chatbot/internal/common/extract"
	"fleet-chatbot/internal/models"
)

// warrantyEndDateLayout is the MM-dd-yy form of the asset warranty end date.
const warrantyEndDateLayout = "01-02-06"

type expiringWarranty struct {
	row models.WarrantyRow
	end time.Time
}

// WarrantyExpiry answers warranty questions about workstations. With
// is_expire set it lists assets whose warranty has lapsed or ends this month;
// otherwise it summarizes the warranty of the asset named in the query.
func WarrantyExpiry(rows []models.WarrantyRow, req Request) string {
	serial := extract.Serial(req.Query)
	if len(rows) == 0 {
		if serial == "" {
			return "Based on the provided data, there are no warranty records in the system."
		}
		return fmt.Sprintf("Based on the provided data, the %s workstation does not exist in the system.", serial)
	}

	if req.Metadata.Flag(models.KeyExpire) {
		return expiringWarranties(rows, req.Now)
	}

	for _, row := range rows {
		if row.Serial.Is(serial) && serial != "" {
			return "Kindly check the given details of the asset's warranty: <ul> " +
				fmt.Sprintf("<li>SerialNo: %s</li> ", bold(row.Serial.Value)) +
				fmt.Sprintf("<li>Warranty: %s</li> ", bold(row.WarrantyDesc.Value)) +
				fmt.Sprintf("<li>WarrantyEndDate: %s</li></ul>", bold(row.WarrantyEndDate.Value))
		}
	}
	return fmt.Sprintf("Based on the provided data, no warranty details were found for asset %s.", bold(serial))
}

func allExpired(rows []models.WarrantyRow) bool {
	for _, row := range rows {
		if !row.WarrantyStatus.IsFold("Expired") {
			return false
		}
	}
	return true
}

func expiringWarranties(rows []models.WarrantyRow, now time.Time) string {
	if allExpired(rows) {
		return headedList(msgBatteriesExpire)
	}

	var selected []expiringWarranty
	for _, row := range rows {
		if row.WarrantyEndDate.IsFold(notApplicable) {
			continue
		}
		end, ok := parseDay(warrantyEndDateLayout, row.WarrantyEndDate.Value, now.Location())
		if !ok {
			continue
		}
		if now.After(end) || (now.Year() == end.Year() && now.Month() == end.Month()) {
			selected = append(selected, expiringWarranty{row: row, end: end})
		}
	}

	month := now.Format("January 2006")
	if len(selected) == 0 {
		return fmt.Sprintf("Based on the provided data, no asset warranties have expired or expire in %s.", bold(month))
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].end.Before(selected[j].end)
	})

	var b strings.Builder
	b.WriteString("Based on the provided data, the closest assets to expire out of warranty are:")
	b.WriteString("<ul>")
	for _, w := range selected {
		suffix := ""
		if now.After(w.end) {
			suffix = " - This warranty is already expired."
		}
		fmt.Fprintf(&b, "<li>Serial %s - %s : Warranty expires %s%s</li>",
			bold(w.row.Serial.Value),
			bold("("+w.row.Description.Value+")"),
			bold(w.row.WarrantyEndDate.Value),
			suffix,
		)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "Many assets have warranties expiring in %s. Please note that some assets show expired warranties in the data. "+
		"Contact technical services for clarification on warranty information marked as \"N/A\".", bold(month))
	return b.String()
}
