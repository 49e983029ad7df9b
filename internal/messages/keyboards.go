package messages

import "telegram-coach-bot/internal/models"

func row(buttons ...models.Button) []models.Button { return buttons }

func btn(label, action string) models.Button {
	return models.Button{Label: label, Action: action}
}

// MainMenuButtons is the top-level menu; admins get an entry to their panel.
func MainMenuButtons(role models.Role) [][]models.Button {
	kb := [][]models.Button{
		row(btn(btnReport, ActionReport)),
		row(btn(btnPlan, ActionPlan), btn(btnMyReport, ActionMyReport)),
		row(btn(btnContact, ActionContact), btn(btnHelp, ActionHelp)),
	}
	if role.AtLeast(models.RoleAdmin) {
		kb = append(kb, row(btn(btnAdmin, ActionAdmin)))
	}
	return kb
}

// AdminMenuButtons lists coach actions, plus role and settings management
// for super-admins.
func AdminMenuButtons(role models.Role) [][]models.Button {
	kb := [][]models.Button{
		row(btn(btnMacros, ActionAdminMacros), btn(btnWorkout, ActionAdminWorkout)),
		row(btn(btnNorms, ActionAdminNorms), btn(btnViewReport, ActionAdminViewReport)),
		row(btn(btnUsers, ActionAdminUsers), btn(btnMyContact, ActionAdminContact)),
		row(btn(btnAssign, ActionAdminAssign), btn(btnUnassign, ActionAdminUnassign)),
	}
	if role == models.RoleSuperAdmin {
		kb = append(kb,
			row(btn(btnPromote, ActionSuperPromote), btn(btnDemote, ActionSuperDemote)),
			row(btn(btnEvening, ActionSuperEvening)),
		)
	}
	return append(kb, row(btn(btnBack, ActionMainMenu)))
}

// BackButtons is the single "return to menu" control attached to failures.
func BackButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnBack, ActionMainMenu))}
}

func CancelButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnCancel, ActionCancel))}
}

func SkipButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnSkip, ActionSkip), btn(btnCancel, ActionCancel))}
}

func FinishButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnFinish, ActionFinish), btn(btnCancel, ActionCancel))}
}

func TodayButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnToday, ActionToday), btn(btnCancel, ActionCancel))}
}

// EveningButtons opens the self-report straight from the reminder.
func EveningButtons() [][]models.Button {
	return [][]models.Button{row(btn(btnReport, ActionReport))}
}
