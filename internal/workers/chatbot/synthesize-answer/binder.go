package synthesizeanswer

import "fleet-chatbot/internal/models"

// Bind derives the dataset parameters from the classification flags. A flag
// that is missing or does not parse as true binds nothing; an absent caller
// value binds "".
func Bind(md models.Metadata, rc models.RequestContext) map[string]string {
	params := make(map[string]string, 2)
	if md.Flag(models.KeyUserID) {
		params[models.ParamUserID] = rc.UserIDText()
	}
	if md.Flag(models.KeySiteID) {
		params[models.ParamSiteID] = rc.SiteIDText()
	}
	return params
}
