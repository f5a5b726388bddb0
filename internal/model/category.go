package model

// Category is a short tag describing what kind of page a target serves.
// The zero value means the page matched no category signature.
type Category string

// Category tags. The order of Categories() is the section order of the report.
const (
	CategoryNone               Category = ""
	CategoryHighValue          Category = "highval"
	CategoryDirList            Category = "dirlist"
	CategoryCMS                Category = "cms"
	CategoryIDRAC              Category = "idrac"
	CategoryNAS                Category = "nas"
	CategoryComms              Category = "comms"
	CategoryDevOps             Category = "devops"
	CategorySecOps             Category = "secops"
	CategoryAppOps             Category = "appops"
	CategoryDataOps            Category = "dataops"
	CategoryNetDev             Category = "netdev"
	CategoryVoIP               Category = "voip"
	CategoryPrinter            Category = "printer"
	CategoryInfrastructure     Category = "infrastructure"
	CategoryConstruction       Category = "construction"
	CategorySplash             Category = "crap"
	CategoryEmpty              Category = "empty"
	CategoryUnauth             Category = "unauth"
	CategoryNotFound           Category = "notfound"
	CategorySuccessfulLogin    Category = "successfulLogin"
	CategoryIdentifiedLogin    Category = "identifiedLogin"
	CategoryRedirector         Category = "redirector"
	CategoryBadHost            Category = "badhost"
	CategoryInternalError      Category = "inerror"
	CategoryBadRequest         Category = "badreq"
	CategoryBadGateway         Category = "badgw"
	CategoryServiceUnavailable Category = "serviceunavailable"
)

// CategoryInfo describes how a category is presented in the report.
type CategoryInfo struct {
	// Tag is the value stored on the page.
	Tag Category

	// DisplayName is the section heading.
	DisplayName string

	// SectionID is the HTML anchor of the section.
	SectionID string
}

var categoryTable = []CategoryInfo{
	{CategoryHighValue, "High Value Targets", "highval"},
	{CategoryDirList, "Directory Listings", "dirlist"},
	{CategoryCMS, "Content Management System (CMS)", "cms"},
	{CategoryIDRAC, "IDRAC/ILo/Management Interfaces", "idrac"},
	{CategoryNAS, "Network Attached Storage (NAS)", "nas"},
	{CategoryComms, "Communications", "comms"},
	{CategoryDevOps, "Development Operations", "devops"},
	{CategorySecOps, "Security Operations", "secops"},
	{CategoryAppOps, "Application Operations", "appops"},
	{CategoryDataOps, "Data Operations", "dataops"},
	{CategoryNetDev, "Network Devices", "netdev"},
	{CategoryVoIP, "Voice/Video over IP (VoIP)", "voip"},
	{CategoryPrinter, "Printers", "printer"},
	{CategoryInfrastructure, "Infrastructure", "infrastructure"},
	{CategoryNone, "Uncategorized", "uncat"},
	{CategoryConstruction, "Under Construction", "construction"},
	{CategorySplash, "Splash Pages", "crap"},
	{CategoryEmpty, "No Significant Content", "empty"},
	{CategoryUnauth, "401/403 Unauthorized", "unauth"},
	{CategoryNotFound, "404 Not Found", "notfound"},
	{CategorySuccessfulLogin, "Successful Logins", "successfulLogin"},
	{CategoryIdentifiedLogin, "Identified Logins", "identifiedLogin"},
	{CategoryRedirector, "Redirecting Pages", "redirector"},
	{CategoryBadHost, "Invalid Hostname", "badhost"},
	{CategoryInternalError, "Internal Error", "inerror"},
	{CategoryBadRequest, "Bad Request", "badreq"},
	{CategoryBadGateway, "Bad Gateway", "badgw"},
	{CategoryServiceUnavailable, "Service Unavailable", "serviceunavailable"},
}

// Categories returns every category in report section order.
// The returned slice is a copy.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// LookupCategory returns the presentation info for tag.
func LookupCategory(tag Category) (CategoryInfo, bool) {
	for _, info := range categoryTable {
		if info.Tag == tag {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// IsKnown reports whether c belongs to the category vocabulary.
func (c Category) IsKnown() bool {
	_, ok := LookupCategory(c)
	return ok
}

// String returns the tag, or "uncategorized" for the zero value.
func (c Category) String() string {
	if c == CategoryNone {
		return "uncategorized"
	}
	return string(c)
}
