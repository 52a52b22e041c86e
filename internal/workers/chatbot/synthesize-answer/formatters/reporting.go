package formatters

import (
	"fmt"
	"strconv"

	"fleet-chatbot/internal/models"
)

const forgotPasswordURL = "https://shop.ergotron.com/ccrz__CCForgotPassword?cartID=&portalUser=&store=&cclcl=en_US"

// AssetReporting reports how many assets are online, or the share in use
// when is_online_offline is not set.
func AssetReporting(rows []models.AssetsReportingRow, req Request) string {
	if len(rows) == 0 {
		return "No asset reporting data available."
	}
	asset := rows[0]
	if req.Metadata.Flag(models.KeyOnlineOffline) {
		return fmt.Sprintf("%s assets are online out of a total of %s assets, with the remaining being offline.",
			bold(asset.AssetsReporting.Value), bold(asset.AssetsTotal.Value))
	}
	return fmt.Sprintf("You have %s assets of which %s are currently in use.",
		bold(asset.AssetsTotal.Value+" "), bold(asset.AssetsReportingPct.Value+"%"))
}

// ForgotPassword points the user at the portal password reset page. It needs no rows.
func ForgotPassword() string {
	return fmt.Sprintf("Please look for a <a style='text-decoration: underline;' href='%s' target='_blank'>Forgot Password</a> "+
		"link on the ModCart login page or contact ModCart support directly.", forgotPasswordURL)
}

func ChargerCount(rows []models.ChargerRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoData
	}
	return fmt.Sprintf("We have %s Chargers.", bold(strconv.Itoa(len(rows))))
}

// DecommissionedAssets lists assets that no longer report an IP address.
func DecommissionedAssets(rows []models.AssetDetailsRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoData
	}
	var items []string
	for _, row := range rows {
		if row.IP.Valid && row.IP.Value != "" {
			continue
		}
		items = append(items, "Serial Number: "+text(row.SerialNo.Value))
	}
	if len(items) == 0 {
		return "There are no decommissioned carts ready to be removed from Rhythm."
	}
	return "Here is a list of decommissioned carts ready to be removed from Rhythm:" + bulletList(items)
}

func HighestUsage(rows []models.HighestUsageRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoAnswer
	}
	peak := rows[0].HighestUsed
	if !peak.Valid || peak.Value <= 0 {
		return "No valid 'highestUsed' value found in the data."
	}
	return fmt.Sprintf("Your peak usage is %s.", bold(peak.String()))
}

// OldestAsset reports the first row of the oldest-asset dataset. Parsable
// post dates are rendered in the dashboard's month/day/year form.
func OldestAsset(rows []models.OldestAssetRow, req Request) string {
	if len(rows) == 0 {
		return msgNoAnswer
	}
	asset := rows[0]
	posted := asset.LastPostDateUTC.Value
	if t, ok := parseTimestamp(posted, req.Now.Location()); ok {
		posted = t.Format("1/2/2006 3:04:05 PM")
	}
	return fmt.Sprintf("The oldest asset still in production is %s serial %s last posted date was %s",
		bold(asset.Description.Value), bold(asset.SerialNo.Value), bold(posted))
}

func BusiestDay(rows []models.BusiestDayRow, _ Request) string {
	if len(rows) == 0 {
		return msgNoAnswer
	}
	return fmt.Sprintf("%s is busiest day of the week.", bold(rows[0].PeakDayName.Value))
}
