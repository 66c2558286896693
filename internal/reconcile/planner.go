package reconcile

// Action is the step planned for one named item.
type Action string

// Planned actions.
const (
	ActionCreate       Action = Action("create")
	ActionSkipExisting Action = Action("skip-existing")
	ActionDelete       Action = Action("delete")
	ActionSkipMissing  Action = Action("skip-missing")
)

// Diff returns the names expected but absent (toAdd) and the names present but not expected (toRemove), both sorted.
func Diff(expected NameSet, actual NameSet) (toAdd []string, toRemove []string) {
	toAdd = make([]string, 0)
	for _, name := range expected.Sorted() {
		if !actual.Contains(name) {
			toAdd = append(toAdd, name)
		}
	}

	toRemove = make([]string, 0)
	for _, name := range actual.Sorted() {
		if !expected.Contains(name) {
			toRemove = append(toRemove, name)
		}
	}
	return toAdd, toRemove
}

// PlanCreate skips names that already exist.
func PlanCreate(name string, actual NameSet) Action {
	if actual.Contains(name) {
		return ActionSkipExisting
	}
	return ActionCreate
}

// PlanDelete skips names that do not exist.
func PlanDelete(name string, actual NameSet) Action {
	if actual.Contains(name) {
		return ActionDelete
	}
	return ActionSkipMissing
}
