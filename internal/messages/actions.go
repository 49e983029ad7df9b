package messages

// Inline action tokens. Menu tokens are routed by the command router,
// wizard tokens are fed into the active wizard.
const (
	ActionMainMenu = "menu:main"
	ActionReport   = "menu:report"
	ActionPlan     = "menu:plan"
	ActionMyReport = "menu:my_report"
	ActionContact  = "menu:contact"
	ActionHelp     = "menu:help"
	ActionAdmin    = "menu:admin"

	ActionAdminMacros     = "admin:macros"
	ActionAdminWorkout    = "admin:workout"
	ActionAdminNorms      = "admin:norms"
	ActionAdminViewReport = "admin:view_report"
	ActionAdminUsers      = "admin:users"
	ActionAdminAssign     = "admin:assign"
	ActionAdminUnassign   = "admin:unassign"
	ActionAdminContact    = "admin:contact"

	ActionSuperPromote = "super:promote"
	ActionSuperDemote  = "super:demote"
	ActionSuperEvening = "super:evening"

	ActionCancel = "wiz:cancel"
	ActionSkip   = "wiz:skip"
	ActionFinish = "wiz:finish"
	ActionToday  = "wiz:today"
)
