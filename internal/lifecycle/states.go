package lifecycle

import (
	"fraud-review-system/internal/models"
)

// transitions is the full lifecycle graph. Absence of a source status means
// it is terminal.
var transitions = map[models.Status][]models.Status{
	models.StatusPending: {
		models.StatusFlagged,
		models.StatusApproved,
		models.StatusCompleted,
		models.StatusFailed,
	},
	models.StatusFlagged: {
		models.StatusApproved,
		models.StatusBlocked,
		models.StatusEscalated,
	},
	models.StatusEscalated: {
		models.StatusApproved,
		models.StatusBlocked,
	},
}

// CanTransition reports whether from -> to is a legal lifecycle transition.
func CanTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// actionTargets maps an analyst action to the status it requests.
var actionTargets = map[models.AnalystAction]models.Status{
	models.ActionApprove:  models.StatusApproved,
	models.ActionBlock:    models.StatusBlocked,
	models.ActionEscalate: models.StatusEscalated,
}

// TargetStatus resolves an analyst action to its target status.
func TargetStatus(action models.AnalystAction) (models.Status, bool) {
	target, ok := actionTargets[action]
	return target, ok
}

// analystSources are the only statuses an analyst may act from. The
// automated path also owns pending -> approved, so the transition table alone
// is not enough to gate analyst entry.
func isAnalystSource(status models.Status) bool {
	return status == models.StatusFlagged || status == models.StatusEscalated
}
