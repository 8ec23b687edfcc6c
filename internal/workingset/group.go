package workingset

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Group is a set of staged lines sharing a grouping label, for display.
type Group struct {
	Label        string // empty for ungrouped lines
	Number       int
	SubComponent string
	Lines        []Line
}

// GroupByServicesComponent partitions lines by grouping label, ordered by
// ascending numeric grouping order with ungrouped lines last. This is a
// display helper only, approval routing never looks at groups.
func GroupByServicesComponent(lines []Line, components []Component) []Group {
	byLabel := make(map[string]*Group)
	var order []string

	for _, line := range lines {
		group, ok := byLabel[line.GroupLabel]
		if !ok {
			group = &Group{Label: line.GroupLabel}
			byLabel[line.GroupLabel] = group
			order = append(order, line.GroupLabel)
		}

		group.Lines = append(group.Lines, line)
	}

	for _, component := range components {
		if group, ok := byLabel[component.ServicesComponent.GroupingLabel()]; ok {
			group.Number = component.ServicesComponent.Number
			group.SubComponent = component.ServicesComponent.SubComponent
		}
	}

	groups := make([]Group, 0, len(order))
	for _, label := range order {
		groups = append(groups, *byLabel[label])
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		// Ungrouped lines go last
		if (a.Label == "") != (b.Label == "") {
			if a.Label == "" {
				return 1
			}
			return -1
		}

		if a.Number != b.Number {
			return a.Number - b.Number
		}

		return strings.Compare(a.SubComponent, b.SubComponent)
	})

	return groups
}
