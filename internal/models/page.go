package models

// Page identifies a portal surface. The set is closed: the gating table
// below and the sidebar menus must cover every page.
type Page string

const (
	PageDashboard    Page = "dashboard"
	PageTransactions Page = "transactions"
	PageCustomers    Page = "customers"
	PageMyStudents   Page = "my-students"
	PageStaff        Page = "staff"
	PageGrading      Page = "grading"
	PageAttendance   Page = "attendance"
	PageConfig       Page = "config"
)

// pageRoles is the single source of truth for page gating. Rendering is
// decided by the session's view role, not the real role.
var pageRoles = map[Page][]UserRole{
	PageDashboard:    {RoleAdmin, RoleTeacher, RoleStudent},
	PageTransactions: {RoleAdmin},
	PageCustomers:    {RoleAdmin, RoleTeacher},
	PageMyStudents:   {RoleAdmin, RoleTeacher},
	PageStaff:        {RoleAdmin},
	PageGrading:      {RoleTeacher, RoleAdmin},
	PageAttendance:   {RoleTeacher, RoleAdmin},
	PageConfig:       {RoleAdmin},
}

// KnownPage reports whether p maps to a portal surface at all.
func KnownPage(p Page) bool {
	_, ok := pageRoles[p]
	return ok
}

// CanView is the page gate: true when viewRole may render page. Unknown
// pages and unknown roles are always restricted.
func CanView(page Page, viewRole UserRole) bool {
	allowed, ok := pageRoles[page]
	if !ok || !viewRole.Valid() {
		return false
	}
	for _, r := range allowed {
		if r == viewRole {
			return true
		}
	}
	return false
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	Page  Page   `json:"page"`
	Label string `json:"label"`
}

// MenuFor returns the sidebar for a view role. Exhaustive over ValidRoles.
func MenuFor(viewRole UserRole) []MenuItem {
	switch viewRole {
	case RoleAdmin:
		return []MenuItem{
			{PageDashboard, "Overview"},
			{PageTransactions, "Transactions"},
			{PageCustomers, "All Students"},
			{PageStaff, "Manage Staff"},
			{PageGrading, "Grading Book"},
			{PageAttendance, "Attendance"},
			{PageConfig, "School Config"},
		}
	case RoleTeacher:
		return []MenuItem{
			{PageDashboard, "Class Overview"},
			{PageMyStudents, "My Students"},
			{PageGrading, "Grading Book"},
			{PageAttendance, "Attendance"},
		}
	case RoleStudent:
		return []MenuItem{
			{PageDashboard, "My Portal"},
		}
	}
	return nil
}
